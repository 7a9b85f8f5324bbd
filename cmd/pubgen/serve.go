package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and reload it when content changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			site := c.site()
			defer site.Close()
			return site.Serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default \":8000\")")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}
