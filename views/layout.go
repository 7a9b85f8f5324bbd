package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/pubgen/markdown"
	"github.com/eringen/pubgen/theme"
)

var esc = templ.EscapeString

// Layout wraps children with the document head, the site header and the
// theme toggle. The home page gets the large heading, every other page the
// small one.
func Layout(p LayoutProps, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, layoutOpen(p)); err != nil {
			return err
		}
		if children != nil {
			if err := children.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main></div></body></html>")
		return err
	})
}

func layoutOpen(p LayoutProps) string {
	pref := theme.Parse(string(p.Theme.Preference), theme.Light)
	prefix := p.Site.PathPrefix

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
	b.WriteString(`<title>` + esc(PageTitle(p.Meta.Title, p.Site.Title)) + `</title>`)
	if d := p.Meta.Description; d != "" {
		b.WriteString(`<meta name="description" content="` + esc(d) + `"/>`)
		b.WriteString(`<meta property="og:description" content="` + esc(d) + `"/>`)
	}
	b.WriteString(`<meta property="og:title" content="` + esc(PageTitle(p.Meta.Title, p.Site.Title)) + `"/>`)
	if p.Meta.OGType != "" {
		b.WriteString(`<meta property="og:type" content="` + esc(p.Meta.OGType) + `"/>`)
	}
	// SafeURL output is already escaped.
	if u := markdown.SafeURL(p.Meta.URL); u != "" {
		b.WriteString(`<link rel="canonical" href="` + u + `"/>`)
		b.WriteString(`<meta property="og:url" content="` + u + `"/>`)
	}
	b.WriteString(`<link rel="stylesheet" href="` + esc(AssetURL(prefix, "style.css")) + `"/>`)
	b.WriteString(`<link rel="alternate" type="application/rss+xml" title="` + esc(p.Site.Title) + `" href="` + esc(Href(prefix, "/feed.xml")) + `"/>`)
	if p.Meta.JSONLD != "" {
		// json.Marshal escapes <, > and &, so the payload cannot close the tag.
		b.WriteString(`<script type="application/ld+json">` + p.Meta.JSONLD + `</script>`)
	}
	b.WriteString(`</head><body class="` + esc(pref.String()) + `">`)
	if p.Theme.Action == "" {
		b.WriteString(`<script src="` + esc(AssetURL(prefix, "theme.js")) + `"></script>`)
	}
	b.WriteString(`<div class="layout"><header class="site-header">`)
	writeHeading(&b, p)
	b.WriteString(" ")
	writeToggle(&b, p.Theme, pref, prefix)
	b.WriteString(`</header><main>`)
	return b.String()
}

func writeHeading(b *strings.Builder, p LayoutProps) {
	home := esc(RootPath(p.Site.PathPrefix))
	title := esc(p.Site.Title)
	if IsRoot(p.Location, p.Site.PathPrefix) {
		b.WriteString(`<div><h1 class="header-link"><a class="header-link" href="` + home + `">` + title + `</a></h1></div>`)
		return
	}
	b.WriteString(`<h3 class="header-link-2"><a class="header-link-2" href="` + home + `">` + title + `</a></h3>`)
}

// toggleIcon picks the icon for the mode a click switches to: the sun while
// dark, the moon while light.
func toggleIcon(pref theme.Preference, prefix string) (src, alt string) {
	if pref == theme.Dark {
		return AssetURL(prefix, "sun.png"), "Light mode"
	}
	return AssetURL(prefix, "moon.png"), "Dark mode"
}

func writeToggle(b *strings.Builder, t Toggle, pref theme.Preference, prefix string) {
	src, alt := toggleIcon(pref, prefix)
	img := `<img width="40" height="40" src="` + esc(src) + `" alt="` + esc(alt) + `" data-theme-icon/>`
	if t.Action == "" {
		b.WriteString(`<label class="theme-toggle" data-theme-toggle`)
		b.WriteString(` data-sun="` + esc(AssetURL(prefix, "sun.png")) + `"`)
		b.WriteString(` data-moon="` + esc(AssetURL(prefix, "moon.png")) + `">`)
		b.WriteString(img + `</label>`)
		return
	}
	b.WriteString(`<form class="theme-toggle" method="post" action="` + esc(t.Action) + `">`)
	if t.CSRFToken != "" {
		b.WriteString(`<input type="hidden" name="_csrf" value="` + esc(t.CSRFToken) + `"/>`)
	}
	if t.Redirect != "" {
		b.WriteString(`<input type="hidden" name="redirect" value="` + esc(t.Redirect) + `"/>`)
	}
	b.WriteString(`<button type="submit" aria-label="` + esc(alt) + `">` + img + `</button></form>`)
}
