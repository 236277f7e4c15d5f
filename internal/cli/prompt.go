package cli

import (
	"fmt"
	"strings"

	"techno-ai-be/pkg/prompt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	opts := prompt.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "prompt <message...>",
		Short: "Show the prompt sent to the completion service for a message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			kind := "answer"
			if prompt.IsGreeting(message) {
				kind = "greeting"
			}
			language := "English"
			if opts.PreferTagalog || prompt.PrefersTagalog(message) {
				language = "Tagalog"
			}
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "template: %s, language: %s\n", kind, language)

			_, err := fmt.Fprintln(cmd.OutOrStdout(), prompt.Enhance(message, opts))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.RoleName, "role", opts.RoleName, "assistant name")
	cmd.Flags().StringVar(&opts.UserName, "user", "", "student name")
	cmd.Flags().StringVar(&opts.Audience, "audience", opts.Audience, "audience description")
	cmd.Flags().BoolVar(&opts.PreferTagalog, "tagalog", false, "force Tagalog answers")
	return cmd
}
