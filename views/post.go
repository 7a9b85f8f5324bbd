package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubgen/markdown"
)

// Post renders a single post inside Layout with links to its neighbours.
func Post(p PostProps) templ.Component {
	meta := PageMeta{
		Title:       p.Post.Label(),
		Description: p.Post.Summary(),
		URL:         PostURL(p.Site, p.Post),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(p.Site, p.Post),
	}
	layout := LayoutProps{
		Site:     p.Site,
		Location: Href(p.Site.PathPrefix, p.Post.Slug),
		Meta:     meta,
		Theme:    p.Theme,
	}
	return Layout(layout, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<article class="post"><header><h1 class="post-title">` + esc(p.Post.Label()) + `</h1>`)
		if p.Post.DisplayDate != "" {
			b.WriteString(`<p class="post-date">` + esc(p.Post.DisplayDate) + `</p>`)
		}
		b.WriteString(`</header><section class="post-body">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := markdown.Markdown(p.Post.HTML).Render(ctx, w); err != nil {
			return err
		}

		b.Reset()
		b.WriteString(`</section></article><nav class="post-nav"><ul>`)
		b.WriteString(`<li>`)
		if p.Previous != nil {
			b.WriteString(`<a href="` + esc(Href(p.Site.PathPrefix, p.Previous.Slug)) + `" rel="prev">← ` + esc(p.Previous.Label()) + `</a>`)
		}
		b.WriteString(`</li><li>`)
		if p.Next != nil {
			b.WriteString(`<a href="` + esc(Href(p.Site.PathPrefix, p.Next.Slug)) + `" rel="next">` + esc(p.Next.Label()) + ` →</a>`)
		}
		b.WriteString(`</li></ul></nav>`)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

// NotFound renders the 404 page.
func NotFound(site SiteConfig, toggle Toggle) templ.Component {
	layout := LayoutProps{
		Site:     site,
		Location: Href(site.PathPrefix, "/404/"),
		Meta:     PageMeta{Title: "404: Not Found"},
		Theme:    toggle,
	}
	return Layout(layout, templ.Raw(`<h1>Not Found</h1><p>You just hit a route that doesn&#39;t exist.</p>`))
}

// ServerError renders the 500 page.
func ServerError(site SiteConfig, toggle Toggle) templ.Component {
	layout := LayoutProps{
		Site:     site,
		Location: Href(site.PathPrefix, "/500/"),
		Meta:     PageMeta{Title: "Server Error"},
		Theme:    toggle,
	}
	return Layout(layout, templ.Raw(`<h1>Something went wrong</h1><p>Try again in a moment.</p>`))
}
