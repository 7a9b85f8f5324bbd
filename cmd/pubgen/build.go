package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site := c.site()
			defer site.Close()

			report, err := site.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d posts (%d files) into %s\n", report.Posts, report.Files, site.Config.OutputDir)
			return nil
		},
	}
	cmd.Flags().Bool("drafts", false, "include draft posts")
	cmd.Flags().String("outputDir", "", "output directory (default \"public\")")
	return cmd
}
