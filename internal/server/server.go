// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"docwrap/internal/builder"

	"github.com/fsnotify/fsnotify"
)

const debounceDuration = 500 * time.Millisecond

// BuildFunc rebuilds the site.
type BuildFunc func(builder.BuildOptions) (builder.Result, error)

// Options configures the dev server.
type Options struct {
	Port      int
	PublicDir string
	// Watch lists files and directories whose changes trigger a rebuild.
	Watch  []string
	Logger *slog.Logger
}

// Run builds the site, serves PublicDir and rebuilds on changes until ctx is
// cancelled. Pages get the live-reload client injected by the builder.
func Run(ctx context.Context, srv Options, buildFunc BuildFunc, opts builder.BuildOptions) error {
	log := srv.Logger
	if log == nil {
		log = slog.Default()
	}

	opts.CleanDestination = true
	opts.LiveReload = true
	if _, err := buildFunc(opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(log)
	defer hub.closeAll()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatches(watcher, srv.Watch, log); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.CleanDestination = false
	go watchForChanges(ctx, watcher, hub, buildFunc, opts, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWs)
	mux.Handle("/", noCache(http.FileServer(http.Dir(srv.PublicDir))))

	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(srv.Port)),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Serving site", "url", fmt.Sprintf("http://localhost:%d", srv.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		log.Info("Shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	}
}

// addWatches watches every directory under the given paths. Files are
// watched through their parent directory so editors that save by renaming
// a swap file are still noticed. Missing paths are skipped.
func addWatches(watcher *fsnotify.Watcher, paths []string, log *slog.Logger) error {
	watched := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			log.Warn("Could not watch directory", "dir", dir, "error", err)
			return
		}
		log.Debug("Watching directory", "dir", dir)
		watched[dir] = true
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(path))
			continue
		}
		if err := filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				add(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return nil
}

// watchForChanges rebuilds once the watched tree has been quiet for
// debounceDuration. Every relevant event restarts the timer, so changes made
// while a build runs are picked up by the next one.
func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, hub *Hub, buildFunc BuildFunc, opts builder.BuildOptions, log *slog.Logger) {
	timer := time.NewTimer(debounceDuration)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var lastPath string

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						log.Warn("Could not watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			lastPath = event.Name
			timer.Reset(debounceDuration)
		case <-timer.C:
			log.Info("Change detected, rebuilding", "path", lastPath)
			res, err := buildFunc(opts)
			if err != nil {
				log.Error("Rebuild failed", "error", err)
				continue
			}
			if !res.Changed() {
				log.Debug("Rebuild produced no changes")
				continue
			}
			log.Info("Site rebuilt, reloading clients", "pages", res.Pages, "written", res.Written, "removed", res.Removed)
			hub.broadcastMessage([]byte("reload"))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Watcher error", "error", err)
		}
	}
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
