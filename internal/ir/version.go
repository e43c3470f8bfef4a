package ir

// Version constants.
const (
	// SpecVersion is the class-spec schema version.
	SpecVersion = "1"

	// EngineVersion is the barfoo resolver version.
	EngineVersion = "0.1.0"
)
