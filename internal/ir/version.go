package ir

// Version constants for the grammar encoding and the tool.
const (
	// IRVersion is the grammar encoding version.
	IRVersion = "1"

	// EngineVersion is the uncurl version.
	EngineVersion = "0.1.0"
)
