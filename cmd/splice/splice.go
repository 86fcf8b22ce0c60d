// Package splicecmder
package splicecmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/splice/cmd/splice/auth"
	configcmder "github.com/papercomputeco/splice/cmd/splice/config"
	tailcmder "github.com/papercomputeco/splice/cmd/splice/tail"
	versioncmder "github.com/papercomputeco/splice/cmd/version"
)

const spliceLongDesc string = `Splice turns raw LLM streaming responses into one canonical delta stream.

Point it at any SSE endpoint (or pipe a captured stream in) and it parses
the wire format, adapts the provider payloads, and prints canonical deltas:

  splice tail -s https://api.openai.com/v1/chat/completions
  cat capture.txt | splice tail --provider anthropic

Manage persistent settings and credentials with:
  splice config    Get, set, and list configuration values
  splice auth      Store API credentials for LLM providers`

const spliceShortDesc string = "Splice - canonical LLM stream plumbing"

func NewSpliceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splice",
		Short: spliceShortDesc,
		Long:  spliceLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .splice/ config directory")

	// Add subcommands
	cmd.AddCommand(tailcmder.NewTailCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
