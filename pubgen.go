// Package pubgen renders a Markdown blog into a static site and serves the
// same pages from a development server.
//
// Posts are read from the content directory, indexed into SQLite and
// queried back in date order; the views package turns that listing into the
// index page and one page per post.
package pubgen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eringen/pubgen/content"
	"github.com/eringen/pubgen/theme"
	"github.com/eringen/pubgen/views"
)

// ErrReservedSlug is returned for posts whose slug collides with the index page.
var ErrReservedSlug = errors.New("pubgen: slug is reserved")

// Site is the central pubgen application. It wires together the store,
// cache, views, and the dev server.
type Site struct {
	Config SiteConfig
	Store  *Store
	Cache  *PostCache
	Echo   *echo.Echo

	log    logrus.FieldLogger
	themes ThemeProvider
	ownsDB bool

	mu    sync.RWMutex
	icons map[string][]byte
}

// New creates a Site with the given configuration.
func New(cfg SiteConfig, opts ...Option) *Site {
	cfg.setDefaults()

	s := &Site{
		Config: cfg,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open prepares the store and cache. It is safe to call more than once.
func (s *Site) Open() error {
	if s.Store == nil {
		store, err := NewStore(s.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("pubgen: init store: %w", err)
		}
		s.Store = store
		s.ownsDB = true
	}
	if s.Cache == nil {
		s.Cache = NewPostCache(s.Store, s.Config.PostCacheTTL)
		s.Cache.drafts = s.Config.Drafts
	}
	return nil
}

// Close cleans up resources opened by the Site.
func (s *Site) Close() error {
	if s.Store != nil && s.ownsDB {
		return s.Store.Close()
	}
	return nil
}

// Reindex loads the content directory into the store and drops cached
// listings. It returns the number of posts indexed.
func (s *Site) Reindex() (int, error) {
	if err := s.Open(); err != nil {
		return 0, err
	}
	posts, err := content.Load(s.Config.ContentDir, s.Config.loadOptions())
	if err != nil {
		return 0, err
	}
	for _, p := range posts {
		if p.Slug == views.RootPath("") {
			return 0, fmt.Errorf("%s: %w", p.SourcePath, ErrReservedSlug)
		}
	}
	if err := s.Store.ReplaceAll(posts); err != nil {
		return 0, fmt.Errorf("pubgen: reindex: %w", err)
	}
	s.Cache.Invalidate()
	s.log.WithField("posts", len(posts)).Info("content indexed")
	return len(posts), nil
}

func (s *Site) defaultTheme() theme.Preference {
	return theme.Parse(s.Config.DefaultTheme, theme.Light)
}
