package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubgen/content"
)

// Index renders the post listing inside Layout. Posts are expected to be
// sorted already; an empty slice renders an empty main region.
func Index(p IndexProps) templ.Component {
	location := p.Location
	if location == "" {
		location = RootPath(p.Site.PathPrefix)
	}
	meta := PageMeta{
		Title:       "All posts",
		Description: p.Site.Description,
		URL:         HomeURL(p.Site),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(p.Site),
	}
	return Layout(LayoutProps{Site: p.Site, Location: location, Meta: meta, Theme: p.Theme}, PostList(p.Site.PathPrefix, p.Posts))
}

// PostList renders one entry per post: the date label and a link labelled
// with the post title, or its slug when untitled.
func PostList(prefix string, posts []content.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		for _, post := range posts {
			b.WriteString(`<article class="post-entry"><header><h3 class="post-entry-title">`)
			if post.DisplayDate != "" {
				b.WriteString(`<small class="post-date">` + esc(post.DisplayDate) + `</small> `)
			}
			b.WriteString(`<a class="post-link" href="` + esc(Href(prefix, post.Slug)) + `">` + esc(post.Label()) + `</a>`)
			b.WriteString(`</h3></header></article>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}
