package pubgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/sirupsen/logrus"

	"github.com/eringen/pubgen/content"
	"github.com/eringen/pubgen/views"
)

// ErrUnsafeOutputDir is returned when cleaning the output directory would
// remove the working directory, the filesystem root or site sources.
var ErrUnsafeOutputDir = errors.New("pubgen: unsafe output directory")

// BuildReport summarises a finished build.
type BuildReport struct {
	Posts    int
	Files    int
	Duration time.Duration
}

// Build renders the whole site into Config.OutputDir. The directory is
// removed and recreated first.
func (s *Site) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	var report BuildReport

	if _, err := s.Reindex(); err != nil {
		return report, err
	}
	posts, err := s.publishedPosts()
	if err != nil {
		return report, fmt.Errorf("pubgen: query posts: %w", err)
	}
	report.Posts = len(posts)

	out := s.Config.OutputDir
	if err := s.checkOutputDir(); err != nil {
		return report, err
	}
	if err := os.RemoveAll(out); err != nil {
		return report, fmt.Errorf("pubgen: clean %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return report, err
	}

	w := &siteWriter{ctx: ctx, out: out}
	if err := s.writeAssets(w); err != nil {
		return report, err
	}

	cfg := s.Config.viewConfig()
	toggle := views.Toggle{Preference: s.defaultTheme()}

	w.page("index.html", views.Index(views.IndexProps{Site: cfg, Posts: posts, Theme: toggle}))
	for i, p := range posts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		previous, next := Neighbours(posts, i)
		w.page(postPath(p.Slug), views.Post(views.PostProps{
			Site:     cfg,
			Post:     p,
			Previous: previous,
			Next:     next,
			Theme:    toggle,
		}))
	}
	w.page("404.html", views.NotFound(cfg, toggle))
	w.xml("feed.xml", func(wr io.Writer) error { return writeRSS(wr, cfg, posts) })
	w.xml("sitemap.xml", func(wr io.Writer) error { return writeSitemap(wr, cfg, posts) })
	if w.err != nil {
		return report, w.err
	}

	if err := copyStatic(s.Config.StaticDir, out); err != nil {
		return report, err
	}

	report.Files = w.files
	report.Duration = time.Since(start)
	s.log.WithFields(logrus.Fields{
		"posts":    report.Posts,
		"files":    report.Files,
		"output":   out,
		"duration": report.Duration.Round(time.Millisecond),
	}).Info("site built")
	return report, nil
}

func (s *Site) publishedPosts() ([]content.Post, error) {
	if s.Config.Drafts {
		return s.Store.ListAllPosts()
	}
	return s.Store.ListPosts()
}

func (s *Site) writeAssets(w *siteWriter) error {
	err := fs.WalkDir(EmbeddedAssets, "embedded", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := EmbeddedAssets.ReadFile(path)
		if err != nil {
			return err
		}
		w.raw(filepath.Join("static", strings.TrimPrefix(path, "embedded/")), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("pubgen: write assets: %w", err)
	}
	icons, err := ToggleIcons(s.Config.StaticDir)
	if err != nil {
		return fmt.Errorf("pubgen: toggle icons: %w", err)
	}
	for name, data := range icons {
		w.raw(filepath.Join("static", name), data)
	}
	return w.err
}

// checkOutputDir refuses output directories that contain the working
// directory or the content and static sources.
func (s *Site) checkOutputDir() error {
	out, err := filepath.Abs(s.Config.OutputDir)
	if err != nil {
		return err
	}
	if out == filepath.Dir(out) {
		return fmt.Errorf("%s: %w", s.Config.OutputDir, ErrUnsafeOutputDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	for _, p := range []string{wd, s.Config.ContentDir, s.Config.StaticDir} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if within(out, abs) {
			return fmt.Errorf("%s contains %s: %w", s.Config.OutputDir, p, ErrUnsafeOutputDir)
		}
		// Sources are walked while the output is written.
		if p != wd && within(abs, out) {
			return fmt.Errorf("%s is inside %s: %w", s.Config.OutputDir, p, ErrUnsafeOutputDir)
		}
	}
	return nil
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// postPath maps "/hello-world/" to "hello-world/index.html".
func postPath(slug string) string {
	return filepath.Join(filepath.FromSlash(strings.Trim(slug, "/")), "index.html")
}

// siteWriter writes files below out and keeps the first error, so a run of
// writes can be checked once.
type siteWriter struct {
	ctx   context.Context
	out   string
	files int
	err   error
}

func (w *siteWriter) page(rel string, cmp templ.Component) {
	if w.err != nil {
		return
	}
	w.err = renderFile(w.ctx, filepath.Join(w.out, rel), cmp)
	if w.err == nil {
		w.files++
	}
}

func (w *siteWriter) xml(rel string, encode func(io.Writer) error) {
	if w.err != nil {
		return
	}
	w.err = writeFile(filepath.Join(w.out, rel), encode)
	if w.err == nil {
		w.files++
	}
}

func (w *siteWriter) raw(rel string, data []byte) {
	w.xml(rel, func(wr io.Writer) error {
		_, err := wr.Write(data)
		return err
	})
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := encode(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// copyStatic copies the user's static directory into the output root. A
// missing directory is not an error.
func copyStatic(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, os.ModePerm)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeFile(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
