package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/eringen/pubgen/markdown"
)

var (
	// ErrDuplicateSlug is returned when two files map to the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
	// ErrInvalidDate is returned when a frontmatter date matches no known layout.
	ErrInvalidDate = errors.New("invalid date")
)

// DefaultDateFormat renders dates as DD.MM.YYYY.
const DefaultDateFormat = "02.01.2006"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Options controls how Load interprets the content directory.
type Options struct {
	// Section is a leading directory stripped from slugs ("blog" turns
	// blog/hello/index.md into /hello/). Empty keeps the full path.
	Section string
	// DateFormat is the Go layout used for Post.DisplayDate.
	DateFormat string
	// Drafts includes posts marked draft: true.
	Drafts bool
	// ExcerptLength caps Post.Excerpt in runes.
	ExcerptLength int
}

func (o *Options) setDefaults() {
	if o.DateFormat == "" {
		o.DateFormat = DefaultDateFormat
	}
	if o.ExcerptLength == 0 {
		o.ExcerptLength = markdown.ExcerptLength
	}
}

type frontMatter struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
}

// Load reads every Markdown file under dir and returns the posts sorted
// newest first.
func Load(dir string, opts Options) ([]Post, error) {
	opts.setDefaults()
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	var posts []Post
	seen := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		post, err := loadFile(p, rel, opts)
		if err != nil {
			return err
		}
		if post.Draft && !opts.Drafts {
			return nil
		}
		if prev, ok := seen[post.Slug]; ok {
			return fmt.Errorf("content: %s and %s both map to %s: %w", prev, p, post.Slug, ErrDuplicateSlug)
		}
		seen[post.Slug] = p
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	Sort(posts)
	return posts, nil
}

func loadFile(file, rel string, opts Options) (Post, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return Post{}, fmt.Errorf("content: read %s: %w", file, err)
	}
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return Post{}, fmt.Errorf("content: frontmatter %s: %w", file, err)
	}
	date, err := ParseDate(fm.Date)
	if err != nil {
		return Post{}, fmt.Errorf("content: %s: %w", file, err)
	}
	rendered, err := markdown.Render(body)
	if err != nil {
		return Post{}, fmt.Errorf("content: %s: %w", file, err)
	}
	post := Post{
		Slug:        Slug(rel, opts.Section),
		Title:       strings.TrimSpace(fm.Title),
		Date:        date,
		Description: strings.TrimSpace(fm.Description),
		Excerpt:     markdown.Excerpt(rendered, opts.ExcerptLength),
		HTML:        rendered,
		SourcePath:  file,
		Draft:       fm.Draft,
	}
	if !date.IsZero() {
		post.DisplayDate = date.Format(opts.DateFormat)
	}
	return post, nil
}

// ParseDate accepts RFC3339 and the common date-only layouts. An empty
// value yields the zero time.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", v, ErrInvalidDate)
}

// Slug derives the routing key for a file path relative to the content
// directory: blog/hello-world/index.md becomes /hello-world/ when section
// is "blog".
func Slug(rel, section string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" {
		rel = path.Dir(rel)
	}
	if section != "" {
		section = strings.Trim(section, "/")
		if rel == section {
			rel = "."
		} else {
			rel = strings.TrimPrefix(rel, section+"/")
		}
	}
	if rel == "." || rel == "" {
		return "/"
	}
	return "/" + strings.Trim(rel, "/") + "/"
}
