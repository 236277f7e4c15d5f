package cli

import (
	"fmt"
	"strings"

	"techno-ai-be/pkg/title"

	"github.com/spf13/cobra"
)

func newTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "title <question...>",
		Short: "Print the conversation title derived from a first question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), title.Short(strings.Join(args, " ")))
			return err
		},
	}
}
