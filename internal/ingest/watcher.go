package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tributecare/poa-validator/constants"
)

// WatchConfig configures the intake watcher.
type WatchConfig struct {
	Roots       []string // directories to watch (recursive)
	AllowedExts map[string]struct{}
	InitialScan bool          // if true, walk roots and emit existing files
	Debounce    time.Duration // coalesce rapid write/rename bursts per file
}

// StartWatcher watches intake directories and emits paths of documents ready
// for validation. The returned channels close when ctx is cancelled.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no intake roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = constants.AllowedExtensions
	}
	evCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	var initial []string
	addDir := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				initial = append(initial, path)
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addDir(r); err != nil {
			logger.Error("failed to add intake root", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(evCh)
		defer close(errCh)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		// Every path is delivered or the watcher shuts down; a dropped
		// intake file would never get a verdict.
		send := func(p string) bool {
			select {
			case evCh <- p:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, p := range initial {
			if !send(p) {
				return
			}
		}

		// pending and its flush timer live entirely in this goroutine.
		var flush <-chan time.Time
		pending := map[string]struct{}{}

		sendPending := func() bool {
			for p := range pending {
				if !send(p) {
					return false
				}
				delete(pending, p)
			}
			return true
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-flush:
				flush = nil
				if !sendPending() {
					return
				}
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create == fsnotify.Create {
					// New directories join the watch; non-dirs fail silently.
					_ = w.Add(e.Name)
				}
				if allowed(e.Name, cfg.AllowedExts) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						flush = time.After(cfg.Debounce)
					} else if !sendPending() {
						return
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return evCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}
