package views

import (
	"github.com/eringen/pubgen/content"
	"github.com/eringen/pubgen/theme"
)

// SiteConfig holds the site-wide values every page needs.
type SiteConfig struct {
	Title       string
	Description string
	Author      string
	URL         string // canonical base URL, no trailing slash
	PathPrefix  string // mount point when the site is not served from "/"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Toggle describes the theme toggle control. The preference and the way to
// flip it are passed in; the views never store either.
type Toggle struct {
	Preference theme.Preference
	// Action is the URL a POST flips the preference at. Empty renders the
	// browser-side toggle driven by theme.js.
	Action    string
	CSRFToken string
	// Redirect is where the server sends the visitor after a flip.
	Redirect string
}

// LayoutProps is everything the page chrome needs.
type LayoutProps struct {
	Site     SiteConfig
	Location string // request path, compared against the site root
	Meta     PageMeta
	Theme    Toggle
}

// IndexProps feeds the post listing. Posts are rendered in the given order.
type IndexProps struct {
	Site     SiteConfig
	Location string
	Posts    []content.Post
	Theme    Toggle
}

// PostProps feeds a single post page. Previous is the older neighbour and
// Next the newer one; either may be nil.
type PostProps struct {
	Site     SiteConfig
	Post     content.Post
	Previous *content.Post
	Next     *content.Post
	Theme    Toggle
}
