package pubgen

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/pubgen/theme"
)

const (
	themeSessionName = "theme"
	themeSessionKey  = "preference"
)

// ThemeProvider reads and flips the visitor's theme preference for the
// dev server. The views only ever see the resulting theme.Preference.
type ThemeProvider interface {
	Current(c echo.Context) theme.Preference
	Toggle(c echo.Context) (theme.Preference, error)
}

// sessionThemes keeps the preference in a signed cookie session.
type sessionThemes struct {
	fallback theme.Preference
}

// NewSessionThemes returns a ThemeProvider backed by the echo-contrib
// session middleware. Visitors without a stored preference get fallback.
func NewSessionThemes(fallback theme.Preference) ThemeProvider {
	return sessionThemes{fallback: fallback}
}

func (t sessionThemes) Current(c echo.Context) theme.Preference {
	sess, err := session.Get(themeSessionName, c)
	if err != nil {
		return t.fallback
	}
	v, _ := sess.Values[themeSessionKey].(string)
	return theme.Parse(v, t.fallback)
}

func (t sessionThemes) Toggle(c echo.Context) (theme.Preference, error) {
	next := t.Current(c).Toggle()
	// An undecodable cookie still yields a fresh session to overwrite it with.
	sess, err := session.Get(themeSessionName, c)
	if sess == nil {
		return next, err
	}
	sess.Values[themeSessionKey] = next.String()
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return next, err
	}
	return next, nil
}

// WithThemes replaces the cookie backed theme provider.
func WithThemes(p ThemeProvider) Option {
	return func(s *Site) {
		s.themes = p
	}
}

func (s *Site) newSessionStore() *sessions.CookieStore {
	secret := []byte(s.Config.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		s.log.Warn("sessionSecret not set; theme cookies will not survive a restart")
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 365,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.Config.CookieSecure,
	}
	return store
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
