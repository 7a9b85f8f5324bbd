package pubgen

import (
	"sync"
	"time"

	"github.com/eringen/pubgen/content"
)

// PostCache is an in-memory cache of the ordered post listing with TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.Post
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	store   *Store
	drafts  bool
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	list := c.store.ListPosts
	if c.drafts {
		list = c.store.ListAllPosts
	}
	posts, err := list()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []content.Post{}
	}
	c.posts = posts
	c.bySlug = make(map[string]int, len(posts))
	for i, p := range posts {
		c.bySlug[p.Slug] = i
	}
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached listing after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded() ([]content.Post, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, idx := c.posts, c.bySlug
		c.mu.RUnlock()
		return posts, idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bySlug, nil
}

// ListPosts returns the listing newest first. Drafts are left out unless
// the cache was opened for a site with drafts enabled.
func (c *PostCache) ListPosts() ([]content.Post, error) {
	posts, _, err := c.ensureLoaded()
	return posts, err
}

// GetPost returns a post with its older (previous) and newer (next)
// neighbours in the listing.
func (c *PostCache) GetPost(slug string) (post content.Post, previous, next *content.Post, err error) {
	posts, idx, err := c.ensureLoaded()
	if err != nil {
		return content.Post{}, nil, nil, err
	}
	i, ok := idx[slug]
	if !ok {
		// The listing may predate a write to the store.
		if _, err := c.store.GetPost(slug); err != nil {
			return content.Post{}, nil, nil, err
		}
		c.Invalidate()
		if posts, idx, err = c.ensureLoaded(); err != nil {
			return content.Post{}, nil, nil, err
		}
		if i, ok = idx[slug]; !ok {
			return content.Post{}, nil, nil, ErrNotFound
		}
	}
	previous, next = Neighbours(posts, i)
	return posts[i], previous, next, nil
}

// Neighbours returns the older and newer posts around index i of a listing
// sorted newest first.
func Neighbours(posts []content.Post, i int) (previous, next *content.Post) {
	if i+1 < len(posts) {
		p := posts[i+1]
		previous = &p
	}
	if i > 0 {
		p := posts[i-1]
		next = &p
	}
	return previous, next
}
