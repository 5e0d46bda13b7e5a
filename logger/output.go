package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information the CLI prints regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Results and diagnostics only
//	1 (-v)      - + Per-file progress, server startup, config file in use
//	2 (-vv)     - + Timing, resolved configuration values
//	3 (-vvv)    - + Protocol message tracing, token dumps

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults     OutputCategory = iota // Command output: tokens, trees, summaries
	OutputDiagnostics                       // Source diagnostics and operational errors

	// Level 1 (-v) - Informational
	OutputProgress // Per-file progress while checking
	OutputStartup  // Server startup and transport details

	// Level 2 (-vv) - Detailed
	OutputTiming // Tokenize/parse timing
	OutputConfig // Config values loaded/applied

	// Level 3 (-vvv) - Trace
	OutputProtocol // Editor-protocol messages
	OutputTokens   // Full token dumps next to parse results
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:     VerbosityUser,
	OutputDiagnostics: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputStartup:  VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,

	OutputProtocol: VerbosityTrace,
	OutputTokens:   VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputDiagnostics: "diagnostics",
	OutputProgress:    "progress",
	OutputStartup:     "startup",
	OutputTiming:      "timing",
	OutputConfig:      "config",
	OutputProtocol:    "protocol",
	OutputTokens:      "tokens",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}
