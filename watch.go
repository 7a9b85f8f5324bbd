package pubgen

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long the watcher waits after the last change before
// reloading.
const WatchDebounce = 300 * time.Millisecond

// Watch reloads content and toggle icons whenever something under the
// content or static directory changes. It blocks until ctx is cancelled.
func (s *Site) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, root := range []string{s.Config.ContentDir, s.Config.StaticDir} {
		if err := addRecursive(watcher, root); err != nil {
			s.log.WithError(err).WithField("dir", root).Warn("not watching")
		}
	}

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.log.WithField("file", event.Name).Debug("change detected")
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addRecursive(watcher, event.Name); err != nil {
					s.log.WithError(err).WithField("dir", event.Name).Warn("not watching")
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(WatchDebounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			s.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("watcher error")
		}
	}
}

// reload reindexes content and redraws the toggle icons, logging failures so
// the server keeps serving the last good state.
func (s *Site) reload() {
	if _, err := s.Reindex(); err != nil {
		s.log.WithError(err).Error("reindex failed")
	}
	if err := s.loadIcons(); err != nil {
		s.log.WithError(err).Error("toggle icons failed")
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
