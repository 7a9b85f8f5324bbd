// Package scaffold holds the starter site written by "pubgen new".
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// ErrExists is returned when the destination directory already exists.
var ErrExists = errors.New("scaffold: destination exists")

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	SiteName string
	Author   string
	Date     string // YYYY-MM-DD of the sample post
}

// Write renders every template into dst and returns the created paths in
// walk order. dst must not exist.
func Write(dst string, data Data) ([]string, error) {
	if _, err := os.Stat(dst); err == nil {
		return nil, fmt.Errorf("%s: %w", dst, ErrExists)
	}

	const root = "templates"
	var created []string
	err := fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil {
			return err
		}
		out := strings.TrimSuffix(filepath.Join(dst, rel), ".tmpl")
		// gitignore is stored without its dot.
		if filepath.Base(out) == "gitignore" {
			out = filepath.Join(filepath.Dir(out), ".gitignore")
		}

		if d.IsDir() {
			return os.MkdirAll(out, 0o755)
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		if err := writeTemplate(out, tmpl, data); err != nil {
			return err
		}
		created = append(created, out)
		return nil
	})
	return created, err
}

func writeTemplate(path string, tmpl *template.Template, data Data) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("execute template %s: %w", tmpl.Name(), err)
	}
	return nil
}
