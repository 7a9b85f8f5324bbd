package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/pubgen/scaffold"
)

func (c *cli) newNewCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:         "new <dir>",
		Short:       "Create a starter site",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"config": "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			data := scaffold.Data{
				SiteName: siteName(dir),
				Author:   author,
				Date:     time.Now().Format("2006-01-02"),
			}
			created, err := scaffold.Write(dir, data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, path := range created {
				fmt.Fprintf(out, "  created %s\n", path)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Done! Next steps:")
			fmt.Fprintf(out, "  cd %s\n", dir)
			fmt.Fprintln(out, "  pubgen serve")
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "author name written to config.yaml")
	return cmd
}

// siteName turns a directory such as "my-blog" into "My Blog".
func siteName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return cases.Title(language.English).String(base)
}
