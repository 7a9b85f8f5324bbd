package pubgen

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg SiteConfig, files map[string]string) (*testSite, *echo.Echo) {
	t.Helper()
	s := newTestSite(t, cfg, files)
	e, err := s.Handler()
	require.NoError(t, err)
	return s, e
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return serve(e, req)
}

func responseDoc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func TestServeIndex(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{Title: "Test Blog"}, samplePosts)

	rec := get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	doc := responseDoc(t, rec)
	require.Equal(t, 1, doc.Find("h1.header-link").Length())
	require.Equal(t, 2, doc.Find("article.post-entry").Length())
	require.Equal(t, "/b/", doc.Find("article.post-entry a").First().Text())

	form := doc.Find("form.theme-toggle")
	require.Equal(t, 1, form.Length())
	action, _ := form.Attr("action")
	require.Equal(t, "/theme/toggle", action)
	token, _ := form.Find(`input[name="_csrf"]`).Attr("value")
	require.NotEmpty(t, token)
	require.Equal(t, 0, doc.Find("label[data-theme-toggle]").Length())
}

func TestServePost(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{}, samplePosts)

	rec := get(e, "/a/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := responseDoc(t, rec)
	require.Equal(t, "Hello", doc.Find("h1.post-title").Text())
	require.Equal(t, 1, doc.Find("h3.header-link-2").Length())
	next, _ := doc.Find(`a[rel="next"]`).Attr("href")
	require.Equal(t, "/b/", next)
}

func TestServeAddsTrailingSlash(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{}, samplePosts)

	rec := get(e, "/a")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/a/", rec.Header().Get(echo.HeaderLocation))
}

func TestServeNotFound(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{}, samplePosts)

	rec := get(e, "/missing/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := responseDoc(t, rec)
	require.Equal(t, "Not Found", doc.Find("main h1").Text())
}

func TestServeFeedAndSitemap(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{URL: "https://example.com"}, samplePosts)

	rec := get(e, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get(echo.HeaderContentType), "application/rss+xml")
	body := rec.Body.String()
	require.Contains(t, body, `<rss version="2.0">`)
	require.Contains(t, body, "<title>Hello</title>")
	require.Contains(t, body, "<link>https://example.com/a/</link>")
	require.Less(t, strings.Index(body, "https://example.com/b/"), strings.Index(body, "https://example.com/a/"))

	rec = get(e, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<loc>https://example.com/</loc>")
	require.Contains(t, rec.Body.String(), "<lastmod>2020-01-01</lastmod>")
}

func TestServeStatic(t *testing.T) {
	files := map[string]string{
		"static/robots.txt":     "User-agent: *\n",
		"static/static/app.css": "body{}",
	}
	for k, v := range samplePosts {
		files[k] = v
	}
	_, e := newTestServer(t, SiteConfig{}, files)

	rec := get(e, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/css")
	require.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	rec = get(e, "/static/moon.png")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))

	rec = get(e, "/static/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{}", rec.Body.String())

	rec = get(e, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User-agent: *\n", rec.Body.String())

	rec = get(e, "/static/nope.js")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

// csrf fetches a page to obtain the CSRF cookie and the token the form carries.
func csrf(t *testing.T, e *echo.Echo) (*http.Cookie, string) {
	t.Helper()
	rec := get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "_csrf" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	token, _ := responseDoc(t, rec).Find(`form.theme-toggle input[name="_csrf"]`).Attr("value")
	require.Equal(t, cookie.Value, token)
	return cookie, token
}

func toggleRequest(token, redirect string, cookies ...*http.Cookie) *http.Request {
	form := url.Values{"_csrf": {token}, "redirect": {redirect}}
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == themeSessionName {
			return c
		}
	}
	t.Fatal("theme session cookie not set")
	return nil
}

func TestServeThemeToggle(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{SessionSecret: "test-secret"}, samplePosts)
	csrfCookie, token := csrf(t, e)

	rec := serve(e, toggleRequest(token, "/a/", csrfCookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/a/", rec.Header().Get(echo.HeaderLocation))
	themeCookie := sessionCookie(t, rec)

	rec = get(e, "/a/", csrfCookie, themeCookie)
	doc := responseDoc(t, rec)
	require.True(t, doc.Find("body").HasClass("dark"))
	alt, _ := doc.Find("img[data-theme-icon]").Attr("alt")
	require.Equal(t, "Light mode", alt)

	// A second flip returns to the original preference.
	rec = serve(e, toggleRequest(token, "/", csrfCookie, themeCookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	themeCookie = sessionCookie(t, rec)

	doc = responseDoc(t, get(e, "/", csrfCookie, themeCookie))
	require.True(t, doc.Find("body").HasClass("light"))
	alt, _ = doc.Find("img[data-theme-icon]").Attr("alt")
	require.Equal(t, "Dark mode", alt)
}

func TestServeThemeToggleRequiresToken(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{}, samplePosts)

	rec := serve(e, toggleRequest("", "/"))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServeThemeDefault(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{DefaultTheme: "dark"}, samplePosts)

	doc := responseDoc(t, get(e, "/"))
	require.True(t, doc.Find("body").HasClass("dark"))
}

func TestServeWithPathPrefix(t *testing.T) {
	_, e := newTestServer(t, SiteConfig{PathPrefix: "/blog"}, samplePosts)

	rec := get(e, "/blog/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := responseDoc(t, rec)
	require.Equal(t, 1, doc.Find("h1.header-link").Length())
	action, _ := doc.Find("form.theme-toggle").Attr("action")
	require.Equal(t, "/blog/theme/toggle", action)

	require.Equal(t, http.StatusOK, get(e, "/blog/a/").Code)
	require.Equal(t, http.StatusOK, get(e, "/blog/static/theme.js").Code)
	require.Equal(t, http.StatusNotFound, get(e, "/a/").Code)
}

func TestLocalRedirect(t *testing.T) {
	tests := []struct {
		prefix, target, want string
	}{
		{"", "/a/", "/a/"},
		{"", "", "/"},
		{"", "https://evil.example/", "/"},
		{"", "//evil.example/", "/"},
		{"", "/\\evil.example", "/"},
		{"", "/\t/evil.example", "/"},
		{"", "/a/\r\nSet-Cookie: x", "/"},
		{"", "/\x7f/evil.example", "/"},
		{"/blog", "/blog/a/", "/blog/a/"},
		{"/blog", "/blog", "/blog"},
		{"/blog", "/other/", "/blog/"},
	}
	for _, tt := range tests {
		s := New(SiteConfig{PathPrefix: tt.prefix})
		if got := s.localRedirect(tt.target); got != tt.want {
			t.Errorf("localRedirect(%q) with prefix %q = %q, want %q", tt.target, tt.prefix, got, tt.want)
		}
	}
}
