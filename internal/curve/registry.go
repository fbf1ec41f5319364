package curve

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/uncurl/internal/engine"
	"github.com/roach88/uncurl/internal/ir"
)

// Kind says which machinery backs a curve.
type Kind string

const (
	KindDirect  Kind = "direct"
	KindGrammar Kind = "grammar"
)

// Info describes a registered curve.
type Info struct {
	Name        ir.CurveType `json:"name"`
	Kind        Kind         `json:"kind"`
	Description string       `json:"description"`
	Builtin     bool         `json:"builtin"`
	Hash        string       `json:"hash,omitempty"` // grammar content hash
}

type entry struct {
	info    Info
	grammar *ir.Grammar
}

// Registry maps curve names to generators. Names are matched after NFC
// normalization and case folding.
type Registry struct {
	entries map[string]*entry
}

// Normalize returns the lookup key for a curve name.
func Normalize(name string) string {
	// A Caser is stateful; one per call.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// NewRegistry returns a registry holding the builtin curves.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]*entry)}
	r.entries[Normalize(string(ir.CurveHilbert))] = &entry{info: Info{
		Name:        ir.CurveHilbert,
		Kind:        KindDirect,
		Description: "Hilbert curve by iterative bit rotation",
		Builtin:     true,
	}}

	canonical := engine.Hilbert()
	r.entries[Normalize(canonical.Name)] = &entry{
		info: Info{
			Name:        ir.CurveHilbertGrammar,
			Kind:        KindGrammar,
			Description: canonical.Description,
			Builtin:     true,
			Hash:        ir.MustGrammarHash(canonical),
		},
		grammar: &canonical,
	}
	return r
}

// RegisterGrammar adds a grammar under its own name. The grammar's rules
// must be structurally valid; depth is checked when a layout is built.
func (r *Registry) RegisterGrammar(g ir.Grammar) error {
	key := Normalize(g.Name)
	if key == "" {
		return ir.NewError(ir.ErrCodeInvalidGrammar, "grammar name is required")
	}
	if existing, ok := r.entries[key]; ok {
		return ir.NewError(ir.ErrCodeInvalidGrammar, "curve %q is already registered", existing.info.Name)
	}
	if err := engine.Validate(g, 0); err != nil {
		return err
	}
	hash, err := ir.GrammarHash(g)
	if err != nil {
		return fmt.Errorf("register %q: %w", g.Name, err)
	}
	r.entries[key] = &entry{
		info: Info{
			Name:        ir.CurveType(g.Name),
			Kind:        KindGrammar,
			Description: g.Description,
			Hash:        hash,
		},
		grammar: &g,
	}
	return nil
}

// Lookup returns the description of a registered curve.
func (r *Registry) Lookup(name ir.CurveType) (Info, bool) {
	e, ok := r.entries[Normalize(string(name))]
	if !ok {
		return Info{}, false
	}
	return e.info, true
}

// Grammar returns a copy of the grammar behind a grammar curve.
func (r *Registry) Grammar(name ir.CurveType) (ir.Grammar, bool) {
	e, ok := r.entries[Normalize(string(name))]
	if !ok || e.grammar == nil {
		return ir.Grammar{}, false
	}
	g := *e.grammar
	g.Rules = append([]ir.Rule(nil), g.Rules...)
	return g, true
}

// List returns every registered curve, builtins first, then by name.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Builtin != out[j].Builtin {
			return out[i].Builtin
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry) get(name ir.CurveType) (*entry, error) {
	e, ok := r.entries[Normalize(string(name))]
	if !ok {
		return nil, ir.NewError(ir.ErrCodeUnknownCurve, "unknown curve %q", name).
			WithDetail("curve", string(name))
	}
	return e, nil
}
