package pubgen

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pubgen/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("pubgen: post not found")

const memoryDB = ":memory:"

// Store wraps a SQLite database holding the indexed posts. It is the query
// layer the pages read from: listings come back already ordered.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations. ":memory:" keeps the index
// in a single in-process connection.
func NewStore(path string) (*Store, error) {
	if path != memoryDB {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == memoryDB {
		// Every new connection to :memory: is a separate empty database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		// WAL lets the dev server read while the watcher reindexes.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
		`); err != nil {
			db.Close()
			return nil, err
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    display_date TEXT NOT NULL,
    description TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    html TEXT NOT NULL,
    source_path TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS posts_date ON posts (date DESC, slug);
`)
	return err
}

const postColumns = `slug, title, date, display_date, description, excerpt, html, source_path, draft`

// Undated posts store an empty date, which sorts last under DESC.
const postOrder = `ORDER BY date DESC, slug ASC`

// ReplaceAll swaps the indexed posts for posts in one transaction.
func (s *Store) ReplaceAll(posts []content.Post) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.Exec(`DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO posts (` + postColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		if _, err = stmt.Exec(p.Slug, p.Title, formatDate(p.Date), p.DisplayDate, p.Description, p.Excerpt, p.HTML, p.SourcePath, boolInt(p.Draft)); err != nil {
			return fmt.Errorf("index %s: %w", p.Slug, err)
		}
	}
	return tx.Commit()
}

// ListPosts returns all non-draft posts ordered by date descending.
func (s *Store) ListPosts() ([]content.Post, error) {
	return s.query(`SELECT ` + postColumns + ` FROM posts WHERE draft = 0 ` + postOrder)
}

// ListAllPosts returns every post, drafts included, ordered by date descending.
func (s *Store) ListAllPosts() ([]content.Post, error) {
	return s.query(`SELECT ` + postColumns + ` FROM posts ` + postOrder)
}

// GetPost returns a single non-draft post by slug.
func (s *Store) GetPost(slug string) (content.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND draft = 0`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Post{}, ErrNotFound
	}
	return p, err
}

func (s *Store) query(q string, args ...any) ([]content.Post, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.Post, error) {
	var p content.Post
	var date string
	var draft int
	if err := row.Scan(&p.Slug, &p.Title, &date, &p.DisplayDate, &p.Description, &p.Excerpt, &p.HTML, &p.SourcePath, &draft); err != nil {
		return content.Post{}, err
	}
	if date != "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return content.Post{}, fmt.Errorf("post %s: stored date %q: %w", p.Slug, date, err)
		}
		p.Date = t
	}
	p.Draft = draft == 1
	return p, nil
}

// formatDate produces a fixed-width UTC string so lexical order is time order.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
