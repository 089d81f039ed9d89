// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/service"
	"github.com/MKhiriev/go-cookie-sync/models"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when NewJarWatcher gets a non-positive debounce.
const DefaultDebounce = 2 * time.Second

// JarWatcher pushes the local jar shortly after it changes on disk.
//
// The jar's directory is watched rather than the file itself, because
// browsers and the netscape jar replace the file by rename. A burst of
// events within the debounce window results in a single push. The Firefox
// write-ahead log counts as a change to the jar.
type JarWatcher struct {
	path     string
	debounce time.Duration

	syncService service.ClientSyncService
	sink        service.StageSink

	logger *logger.Logger
}

func NewJarWatcher(path string, debounce time.Duration, syncService service.ClientSyncService, sink service.StageSink, logger *logger.Logger) *JarWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if sink == nil {
		sink = service.NopSink
	}
	return &JarWatcher{
		path:        filepath.Clean(path),
		debounce:    debounce,
		syncService: syncService,
		sink:        sink,
		logger:      logger,
	}
}

// Run watches until ctx is cancelled.
func (w *JarWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create jar watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err = fsw.Add(dir); err != nil {
		return fmt.Errorf("watch jar directory %s: %w", dir, err)
	}

	w.logger.Info().Str("func", "JarWatcher.Run").Str("path", w.path).Msg("jar watcher started")
	w.loop(ctx, fsw.Events, fsw.Errors)
	return nil
}

func (w *JarWatcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("func", "JarWatcher.loop").Msg("jar watcher error")

		case <-fire:
			fire = nil
			w.push(ctx)
		}
	}
}

func (w *JarWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == w.path || name == w.path+"-wal"
}

func (w *JarWatcher) push(ctx context.Context) {
	report, err := w.syncService.SyncNow(ctx, models.SyncPush, w.sink)
	switch {
	case err != nil:
		w.logger.Err(err).Str("func", "JarWatcher.push").Msg("push after jar change failed")
	case report.Dropped:
		w.logger.Debug().Str("func", "JarWatcher.push").Msg("push after jar change absorbed by running sync")
	case report.PushSkipped:
		w.logger.Debug().Str("func", "JarWatcher.push").Msg("jar changed but cookies did not")
	default:
		w.logger.Info().Str("func", "JarWatcher.push").Str("etag", report.ETag).Msg("jar change pushed")
	}
}
