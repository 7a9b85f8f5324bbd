package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/pubgen/content"
)

// postFrontMatter mirrors the keys content.Load reads.
type postFrontMatter struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description,omitempty"`
	Draft       bool   `yaml:"draft,omitempty"`
}

func (c *cli) newPostCmd() *cobra.Command {
	var (
		date        string
		description string
		draft       bool
	)
	cmd := &cobra.Command{
		Use:   "post <title>",
		Short: "Create a new post under the content section",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			if _, err := content.ParseDate(date); err != nil {
				return err
			}
			path, err := c.writePost(title, postFrontMatter{
				Title:       title,
				Date:        date,
				Description: description,
				Draft:       draft,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "post date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "description", "", "summary used in the feed and meta tags")
	cmd.Flags().BoolVar(&draft, "draft", false, "mark the post as a draft")
	return cmd
}

// writePost creates <contentDir>/<section>/<slug>/index.md and refuses to
// overwrite an existing post.
func (c *cli) writePost(title string, fm postFrontMatter) (string, error) {
	name := slug.Make(title)
	if name == "" {
		return "", fmt.Errorf("title %q has no usable slug characters", title)
	}
	cfg := c.site().Config
	dir := filepath.Join(cfg.ContentDir, cfg.Section, name)
	path := filepath.Join(dir, "index.md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s: %w", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	c.log.WithField("slug", content.Slug(filepath.Join(cfg.Section, name, "index.md"), cfg.Section)).Debug("post created")
	return path, nil
}
