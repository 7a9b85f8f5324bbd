package pubgen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchReindexesOnChange(t *testing.T) {
	s := newTestSite(t, SiteConfig{}, samplePosts)
	_, err := s.Reindex()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// Rewrite on every tick; the tick is longer than the debounce so a reload
	// lands between checks once the watch is registered.
	require.Eventually(t, func() bool {
		writeSiteFile(t, s.root, "content/blog/new-dir/index.md", "---\ntitle: New\ndate: 2021-01-01\n---\nbody\n")
		posts, err := s.Cache.ListPosts()
		return err == nil && len(posts) == 3
	}, 10*time.Second, 2*WatchDebounce)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchMissingDirs(t *testing.T) {
	s := newTestSite(t, SiteConfig{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Watch(ctx))

	var warned bool
	for _, e := range s.logs.AllEntries() {
		if e.Message == "not watching" {
			warned = true
		}
	}
	require.True(t, warned)
}
