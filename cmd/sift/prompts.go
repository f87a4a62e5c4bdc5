package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sift/internal/prompts"
)

var showPromptText bool

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the embedded extraction prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		embedded := prompts.Embedded()
		if !showPromptText {
			return render(cmd, nil, embedded)
		}
		out := cmd.OutOrStdout()
		for _, p := range embedded {
			fmt.Fprintf(out, "# %s (%s)\n\n%s\n", p.Key, p.Hash, p.Text)
		}
		return nil
	},
}

func init() {
	promptsCmd.Flags().BoolVar(&showPromptText, "text", false, "print template text instead of metadata")
}
