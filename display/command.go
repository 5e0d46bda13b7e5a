package display

import (
	"github.com/spf13/cobra"
)

// Output formats accepted by --format
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ShouldOutputJSON determines if a command should output JSON based on flags
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	// A local --json flag wins when it was set explicitly
	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	// Check global --json flag
	globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
	return globalFlag
}

// OutputFormat resolves the effective output format: an explicit --format
// flag, then --json, then text.
func OutputFormat(cmd *cobra.Command) string {
	if cmd != nil && cmd.Flags().Lookup("format") != nil && cmd.Flags().Changed("format") {
		format, _ := cmd.Flags().GetString("format")
		return format
	}
	if ShouldOutputJSON(cmd) {
		return FormatJSON
	}
	return FormatText
}
