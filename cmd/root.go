package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the fluxfolio command tree. Without a subcommand it
// serves the site.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fluxfolio",
		Short:        "Fluxfolio - a portfolio site with an AI-assisted contact form",
		Long:         `Fluxfolio serves a single-page developer portfolio whose contact form drafts replies with a generative-AI assistant.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	addServeFlags(root)
	root.AddCommand(ServeCmd())
	root.AddCommand(DraftCmd())
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
