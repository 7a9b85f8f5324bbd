package pubgen

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eringen/pubgen/content"
	"github.com/eringen/pubgen/theme"
	"github.com/eringen/pubgen/views"
)

// SiteConfig holds all configuration for a pubgen site.
type SiteConfig struct {
	Title       string `mapstructure:"title"`       // Site title (default "Blog")
	Description string `mapstructure:"description"` // Site description for RSS and meta tags
	Author      string `mapstructure:"author"`      // Author name for JSON-LD
	URL         string `mapstructure:"siteUrl"`     // Canonical URL (default "http://localhost:8000")
	PathPrefix  string `mapstructure:"pathPrefix"`  // Mount point, e.g. "/blog" (default "")

	ContentDir   string `mapstructure:"contentDir"`   // Markdown sources (default "content")
	Section      string `mapstructure:"section"`      // Leading dir stripped from slugs (default "blog")
	StaticDir    string `mapstructure:"staticDir"`    // Copied verbatim into the output (default "static")
	OutputDir    string `mapstructure:"outputDir"`    // Build destination (default "public")
	DatabasePath string `mapstructure:"databasePath"` // SQLite index (default "data/index.db")

	DateFormat   string `mapstructure:"dateFormat"`   // Go layout for post dates (default "02.01.2006")
	DefaultTheme string `mapstructure:"defaultTheme"` // "light" or "dark" (default "light")
	Drafts       bool   `mapstructure:"drafts"`       // Include draft posts

	Addr          string        `mapstructure:"addr"`          // Dev server listen address (default ":8000")
	SessionSecret string        `mapstructure:"sessionSecret"` // Theme cookie key; random per run when empty
	CookieSecure  bool          `mapstructure:"cookieSecure"`  // Set true for HTTPS
	PostCacheTTL  time.Duration `mapstructure:"postCacheTTL"`  // Dev server cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.PathPrefix != "" {
		c.PathPrefix = "/" + strings.Trim(c.PathPrefix, "/")
		if c.PathPrefix == "/" {
			c.PathPrefix = ""
		}
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.Section == "" {
		c.Section = "blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/index.db"
	}
	if c.DateFormat == "" {
		c.DateFormat = content.DefaultDateFormat
	}
	c.DefaultTheme = theme.Parse(c.DefaultTheme, theme.Light).String()
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Title:       c.Title,
		Description: c.Description,
		Author:      c.Author,
		URL:         c.URL,
		PathPrefix:  c.PathPrefix,
	}
}

func (c SiteConfig) loadOptions() content.Options {
	return content.Options{
		Section:    c.Section,
		DateFormat: c.DateFormat,
		Drafts:     c.Drafts,
	}
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLogger replaces the default logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Site) {
		s.log = l
	}
}

// WithStore uses an already opened Store instead of opening DatabasePath.
func WithStore(st *Store) Option {
	return func(s *Site) {
		s.Store = st
	}
}
