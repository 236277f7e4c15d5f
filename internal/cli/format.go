package cli

import (
	"fmt"

	"techno-ai-be/pkg/codeblock"
	"techno-ai-be/pkg/formatter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	var question string
	var stats bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Render a raw model answer to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Format(raw, question))

			if stats {
				_, blocks := codeblock.Extract(raw)
				summary := color.New(color.FgCyan)
				summary.Fprintf(cmd.ErrOrStderr(), "code blocks: %d\n", len(blocks))
				for i, b := range blocks {
					summary.Fprintf(cmd.ErrOrStderr(), "  %d. %s\n", i+1, b.Language)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "question the answer responds to (sets the heading)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print detected code blocks to stderr")
	return cmd
}
