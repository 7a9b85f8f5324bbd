package pubgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Handler indexes the content and returns the dev server's echo instance
// with middleware and routes installed. Later calls return the same instance.
func (s *Site) Handler() (*echo.Echo, error) {
	if s.Echo != nil {
		return s.Echo, nil
	}
	if _, err := s.Reindex(); err != nil {
		return nil, err
	}
	if err := s.loadIcons(); err != nil {
		return nil, fmt.Errorf("pubgen: toggle icons: %w", err)
	}
	if s.themes == nil {
		s.themes = NewSessionThemes(s.defaultTheme())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	s.Echo = e
	s.setupMiddleware()
	s.setupRoutes()
	return e, nil
}

// Serve runs the dev server on Config.Addr and watches the content and
// static directories. It returns after ctx is cancelled and the server has
// shut down.
func (s *Site) Serve(ctx context.Context) error {
	e, err := s.Handler()
	if err != nil {
		return err
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		if err := s.Watch(watchCtx); err != nil {
			s.log.WithError(err).Error("watcher stopped")
		}
	}()

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.Config.Addr).Info("serving")
		if err := e.Start(s.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Site) loadIcons() error {
	icons, err := ToggleIcons(s.Config.StaticDir)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.icons = icons
	s.mu.Unlock()
	return nil
}

func (s *Site) icon(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.icons[name]
	return data, ok
}
