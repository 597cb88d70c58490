// Package cli implements the bookctl command tree.
package cli

import (
	"github.com/spf13/cobra"

	"bookshelf/internal/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ServerURL string
}

// NewRootCommand creates the root command for the bookctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bookctl",
		Short: "bookctl - manage the bookshelf collection",
		Long:  "A client for the bookshelf API that keeps a local view in sync with the server.",
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", "http://localhost:8080", "base URL of the bookshelf server")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// newController builds a Controller for the configured server.
func newController(opts *RootOptions) (*client.Controller, error) {
	api, err := client.New(opts.ServerURL)
	if err != nil {
		return nil, err
	}
	return client.NewController(api), nil
}
