package pubgen

import (
	"bytes"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubgen/views"
)

func (s *Site) setupRoutes() {
	g := s.Echo.Group(s.Config.PathPrefix)

	g.GET("/", s.handleIndex)
	g.GET("/feed.xml", s.handleFeed)
	g.GET("/sitemap.xml", s.handleSitemap)
	g.GET("/static/*", s.handleStatic)
	g.POST("/theme/toggle", s.handleThemeToggle)
	g.GET("/*", s.handlePage)
}

// toggle describes the theme control for the current request.
func (s *Site) toggle(c echo.Context) views.Toggle {
	return views.Toggle{
		Preference: s.themes.Current(c),
		Action:     views.Href(s.Config.PathPrefix, "/theme/toggle"),
		CSRFToken:  CsrfToken(c),
		Redirect:   c.Request().URL.Path,
	}
}

func (s *Site) handleIndex(c echo.Context) error {
	posts, err := s.Cache.ListPosts()
	if err != nil {
		return err
	}
	return Render(c, views.Index(views.IndexProps{
		Site:     s.Config.viewConfig(),
		Location: c.Request().URL.Path,
		Posts:    posts,
		Theme:    s.toggle(c),
	}))
}

// handlePage serves a post by slug, then a file from the static directory,
// then the 404 page.
func (s *Site) handlePage(c echo.Context) error {
	rest := c.Param("*")
	slug := "/" + strings.Trim(rest, "/") + "/"
	post, previous, next, err := s.Cache.GetPost(slug)
	if err == nil {
		return Render(c, views.Post(views.PostProps{
			Site:     s.Config.viewConfig(),
			Post:     post,
			Previous: previous,
			Next:     next,
			Theme:    s.toggle(c),
		}))
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if file, ok := s.userFile(rest); ok {
		return c.File(file)
	}
	return echo.ErrNotFound
}

func (s *Site) handleStatic(c echo.Context) error {
	name := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if data, ok := s.icon(name); ok {
		return c.Blob(http.StatusOK, "image/png", data)
	}
	if data, err := fs.ReadFile(EmbeddedAssets, "embedded/"+name); err == nil {
		return c.Blob(http.StatusOK, contentType(name), data)
	}
	if file, ok := s.userFile("static/" + name); ok {
		return c.File(file)
	}
	return echo.ErrNotFound
}

func (s *Site) handleFeed(c echo.Context) error {
	posts, err := s.Cache.ListPosts()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeRSS(&buf, s.Config.viewConfig(), posts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}

func (s *Site) handleSitemap(c echo.Context) error {
	posts, err := s.Cache.ListPosts()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := writeSitemap(&buf, s.Config.viewConfig(), posts); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, buf.Bytes())
}

func (s *Site) handleThemeToggle(c echo.Context) error {
	pref, err := s.themes.Toggle(c)
	if err != nil {
		return err
	}
	s.log.WithField("theme", pref).Debug("theme toggled")
	return c.Redirect(http.StatusSeeOther, s.localRedirect(c.FormValue("redirect")))
}

// localRedirect returns target when it is a path on this site and the home
// page otherwise.
func (s *Site) localRedirect(target string) string {
	root := views.RootPath(s.Config.PathPrefix)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") ||
		strings.ContainsRune(target, '\\') || strings.IndexFunc(target, unicode.IsControl) >= 0 {
		return root
	}
	if !strings.HasPrefix(target, root) && target+"/" != root {
		return root
	}
	return target
}

// userFile resolves rel inside the static directory. Directories and paths
// escaping it are rejected.
func (s *Site) userFile(rel string) (string, bool) {
	clean := path.Clean("/" + rel)
	file := filepath.Join(s.Config.StaticDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return echo.MIMEOctetStream
}

func (s *Site) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(s.Config.viewConfig(), s.toggle(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		s.log.WithError(err).WithField("path", c.Request().URL.Path).Error("server error")
		_ = RenderStatus(c, code, views.ServerError(s.Config.viewConfig(), s.toggle(c)))
		return
	}
	s.Echo.DefaultHTTPErrorHandler(err, c)
}
