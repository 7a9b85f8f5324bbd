package pubgen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eringen/pubgen/content"
)

func TestPostCacheServesStaleUntilInvalidated(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceAll([]content.Post{{Slug: "/a/", Date: day(1)}}))

	c := NewPostCache(s, time.Hour)
	posts, err := c.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.NoError(t, s.ReplaceAll([]content.Post{
		{Slug: "/a/", Date: day(1)},
		{Slug: "/b/", Date: day(2)},
	}))
	posts, err = c.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1, "cache should not see writes before Invalidate")

	c.Invalidate()
	posts, err = c.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "/b/", posts[0].Slug)
}

func TestPostCacheExpires(t *testing.T) {
	s := setupTestStore(t)
	c := NewPostCache(s, 50*time.Millisecond)

	posts, err := c.ListPosts()
	require.NoError(t, err)
	require.Empty(t, posts)

	require.NoError(t, s.ReplaceAll([]content.Post{{Slug: "/a/"}}))
	time.Sleep(80 * time.Millisecond)

	posts, err = c.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestPostCacheGetPostNeighbours(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceAll([]content.Post{
		{Slug: "/old/", Date: day(1)},
		{Slug: "/mid/", Date: day(2)},
		{Slug: "/new/", Date: day(3)},
	}))
	c := NewPostCache(s, time.Hour)

	post, prev, next, err := c.GetPost("/mid/")
	require.NoError(t, err)
	require.Equal(t, "/mid/", post.Slug)
	require.Equal(t, "/old/", prev.Slug)
	require.Equal(t, "/new/", next.Slug)

	_, prev, next, err = c.GetPost("/new/")
	require.NoError(t, err)
	require.Equal(t, "/mid/", prev.Slug)
	require.Nil(t, next)

	_, _, _, err = c.GetPost("/missing/")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestPostCacheGetPostReloadsOnMiss(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceAll([]content.Post{{Slug: "/a/", Date: day(1)}}))
	c := NewPostCache(s, time.Hour)
	_, err := c.ListPosts()
	require.NoError(t, err)

	require.NoError(t, s.ReplaceAll([]content.Post{
		{Slug: "/a/", Date: day(1)},
		{Slug: "/b/", Date: day(2)},
		{Slug: "/draft/", Date: day(3), Draft: true},
	}))

	post, prev, next, err := c.GetPost("/b/")
	require.NoError(t, err)
	require.Equal(t, "/b/", post.Slug)
	require.Equal(t, "/a/", prev.Slug)
	require.Nil(t, next)

	posts, err := c.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	_, _, _, err = c.GetPost("/draft/")
	require.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}
