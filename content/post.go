// Package content loads Markdown posts from disk and turns them into Post
// records ready for indexing and rendering.
package content

import (
	"sort"
	"strings"
	"time"
)

// Post is a Markdown post reduced to what the pages render.
type Post struct {
	Slug        string
	Title       string
	Date        time.Time
	DisplayDate string
	Description string
	Excerpt     string
	HTML        string
	SourcePath  string
	Draft       bool
}

// Label is the text shown for a post in listings: its title, or the slug
// when the post has none.
func (p Post) Label() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return p.Slug
}

// Summary prefers the frontmatter description over the generated excerpt.
func (p Post) Summary() string {
	if d := strings.TrimSpace(p.Description); d != "" {
		return d
	}
	return p.Excerpt
}

// Sort orders posts newest first. Undated posts go last, ties break on slug.
func Sort(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch {
		case a.Date.IsZero() && b.Date.IsZero():
			return a.Slug < b.Slug
		case a.Date.IsZero():
			return false
		case b.Date.IsZero():
			return true
		case a.Date.Equal(b.Date):
			return a.Slug < b.Slug
		}
		return a.Date.After(b.Date)
	})
}
