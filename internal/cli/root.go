// Package cli provides offline tools for the answer pipeline: rendering,
// titling and prompt expansion.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "techno",
	Short:         "Developer tools for the Techno.ai answer pipeline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newFormatCmd(), newTitleCmd(), newPromptCmd())
}

func Execute() error {
	return rootCmd.Execute()
}

// readInput reads the file named by the first argument, or stdin when there
// is none or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(args[0])
	return string(b), err
}
