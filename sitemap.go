package pubgen

import (
	"encoding/xml"
	"io"

	"github.com/eringen/pubgen/content"
	"github.com/eringen/pubgen/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func writeSitemap(w io.Writer, cfg views.SiteConfig, posts []content.Post) error {
	urls := []sitemapURL{
		{Loc: views.HomeURL(cfg)},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: views.PostURL(cfg, p)}
		if !p.Date.IsZero() {
			u.LastMod = p.Date.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
