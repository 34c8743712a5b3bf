package servecmder

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LouisB739/thehook/pkg/knowledge"
)

// settleDelay lets a writer finish before the file is read. Captures write
// records in a single WriteFile call, so a short delay is enough.
const settleDelay = 200 * time.Millisecond

// sessionWatcher indexes session records as they appear on disk.
type sessionWatcher struct {
	dir     string
	store   *knowledge.Store
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func newSessionWatcher(dir string, store *knowledge.Store, logger *slog.Logger) (*sessionWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &sessionWatcher{
		dir:     dir,
		store:   store,
		watcher: watcher,
		logger:  logger,
	}, nil
}

func (w *sessionWatcher) watch(ctx context.Context) {
	w.logger.Info("watching sessions directory", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			time.Sleep(settleDelay)
			w.indexFile(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("session watcher error", "err", err)
		}
	}
}

// indexFile parses one record and upserts it. Malformed or still-empty
// files are skipped silently; they are picked up by a later write event or
// the next reindex.
func (w *sessionWatcher) indexFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	record, err := knowledge.ParseRecord(data)
	if err != nil {
		return
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".md")
	if err := w.store.IndexRecord(ctx, record, stem); err != nil {
		w.logger.Warn("failed to index session record", "path", path, "err", err)
		return
	}

	w.logger.Debug("indexed session record", "path", path)
}

func (w *sessionWatcher) close() {
	_ = w.watcher.Close()
}
