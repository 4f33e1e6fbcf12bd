package types

// Version constants for the wire format and solver.
const (
	// FormatVersion is the JSON schema version of types, substitutions and constraints.
	FormatVersion = "1"

	// EngineVersion is the tyunify solver version. Stored runs are only reused
	// by a solver with the same major.minor version.
	EngineVersion = "0.1.0"
)
