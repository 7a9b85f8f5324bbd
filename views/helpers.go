package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubgen/content"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// RootPath is the path the site's home page is served at.
func RootPath(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/"
}

// IsRoot reports whether location is the site's home page.
func IsRoot(location, prefix string) bool {
	root := RootPath(prefix)
	return location == root || location == root+"index.html"
}

// Href prefixes a site-absolute path with the mount point.
func Href(prefix, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(prefix, "/") + p
}

// AssetURL returns the URL of a file under the generated static directory.
func AssetURL(prefix, name string) string {
	return Href(prefix, "/static/"+strings.TrimLeft(name, "/"))
}

// PageTitle formats the <title> text.
func PageTitle(page, site string) string {
	page = strings.TrimSpace(page)
	if page == "" || page == site {
		return site
	}
	return page + " | " + site
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Title,
		"url":      buildURL(cfg.URL, cfg.PathPrefix),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Post) string {
	postURL := PostURL(cfg, post)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Label(),
		"description": post.Summary(),
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Title,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if !post.Date.IsZero() {
		data["datePublished"] = post.Date.Format("2006-01-02")
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// PostURL is the canonical absolute URL of a post.
func PostURL(cfg SiteConfig, post content.Post) string {
	return buildURL(cfg.URL, cfg.PathPrefix, post.Slug)
}

// HomeURL is the canonical absolute URL of the index page.
func HomeURL(cfg SiteConfig) string {
	return buildURL(cfg.URL, RootPath(cfg.PathPrefix))
}
