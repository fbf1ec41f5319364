package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainGrammar is the domain prefix for grammar content hashes.
// The version suffix enables future algorithm migration.
const DomainGrammar = "uncurl/grammar/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GrammarHash computes the content-addressed identity of a grammar.
// The description does not participate; two grammars that trace the same
// path under the same names hash identically.
func GrammarHash(g Grammar) (string, error) {
	canonical, err := MarshalCanonical(GrammarObject(g))
	if err != nil {
		return "", fmt.Errorf("GrammarHash: failed to marshal: %w", err)
	}
	return "sha256:" + hashWithDomain(DomainGrammar, canonical), nil
}

// MustGrammarHash is like GrammarHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustGrammarHash(g Grammar) string {
	h, err := GrammarHash(g)
	if err != nil {
		panic(err)
	}
	return h
}
