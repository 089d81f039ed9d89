package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/adapter"
	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/cookies"
	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/service"
	"github.com/MKhiriev/go-cookie-sync/internal/store"
	"github.com/MKhiriev/go-cookie-sync/internal/tui"
	"github.com/MKhiriev/go-cookie-sync/internal/workers"
	"github.com/MKhiriev/go-cookie-sync/models"
)

// ErrNoJar is returned by commands that need the cookie jar when the app
// was opened without one.
var ErrNoJar = errors.New("cookie jar is not configured")

type App struct {
	cfg *config.ClientConfig

	storages *store.ClientStorages
	services *service.ClientServices
	jar      cookies.Store

	ui        *tui.TUI
	clipboard Clipboard
	logger    *logger.Logger
}

// Options selects the optional parts of the app.
type Options struct {
	// WithJar opens the configured cookie jar. Commands that only touch
	// settings leave it off so they work without a jar.
	WithJar bool
	// Clipboard defaults to [SystemClipboard].
	Clipboard Clipboard
}

// NewApp opens storage and builds the services. The caller must Close the
// app.
func NewApp(ctx context.Context, cfg *config.ClientConfig, ui *tui.TUI, opts Options, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create client storage: %w", err)
	}

	remote, err := adapter.NewGistAdapter(cfg.Remote, log.Component("remote"))
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create remote adapter: %w", err)
	}

	var jar cookies.Store
	if opts.WithJar {
		if jar, err = cookies.Open(cfg.Cookies, log.Component("jar")); err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("open cookie jar: %w", err)
		}
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = SystemClipboard
	}

	services := service.NewClientServices(service.ClientDeps{
		Storages:   storages,
		Remote:     remote,
		Jar:        jar,
		Engine:     crypto.NewEngine(cfg.Crypto.Iterations),
		Session:    &crypto.Session{},
		FixedToken: cfg.Remote.Token,
		JobSink:    logSink(log),
	}, log)

	return &App{
		cfg:       cfg,
		storages:  storages,
		services:  services,
		jar:       jar,
		ui:        ui,
		clipboard: clip,
		logger:    log,
	}, nil
}

func (a *App) Close() error {
	return a.storages.Close()
}

// Services exposes the service layer to the command handlers.
func (a *App) Services() *service.ClientServices {
	return a.services
}

// Sync runs one sync with progress shown by the UI.
func (a *App) Sync(ctx context.Context, direction models.SyncDirection) (models.SyncReport, error) {
	if a.jar == nil {
		return models.SyncReport{}, ErrNoJar
	}
	return a.ui.RunSync(ctx, direction, func(ctx context.Context, sink service.StageSink) (models.SyncReport, error) {
		return a.services.SyncService.SyncNow(ctx, direction, sink)
	})
}

// Daemon syncs once, then runs the scheduler and, when enabled, the jar
// watcher until ctx is cancelled.
func (a *App) Daemon(ctx context.Context) error {
	if a.jar == nil {
		return ErrNoJar
	}

	interval, err := a.syncInterval(ctx)
	if err != nil {
		return err
	}

	sink := logSink(a.logger)
	if _, err = a.services.SyncService.SyncNow(ctx, models.SyncAuto, sink); err != nil {
		a.logger.Err(err).Str("func", "App.Daemon").Msg("initial sync failed")
	}

	var watcher workers.Worker
	if a.cfg.Workers.Watch {
		watcher = workers.NewJarWatcher(a.cfg.Cookies.JarPath, a.cfg.Workers.WatchDebounce, a.services.SyncService, sink, a.logger.Component("watcher"))
	}

	ws := workers.NewWorkers(a.logger,
		workers.NewScheduler(a.services.SyncJob, interval, a.logger.Component("scheduler")),
		watcher,
	)

	a.logger.Info().Str("func", "App.Daemon").Dur("interval", interval).Bool("watch", a.cfg.Workers.Watch).Msg("daemon started")
	return ws.Run(ctx)
}

// syncInterval prefers the saved schedule over the configured interval.
func (a *App) syncInterval(ctx context.Context) (time.Duration, error) {
	prefs, err := a.services.PolicyService.Preferences(ctx)
	if err != nil {
		return 0, fmt.Errorf("load preferences: %w", err)
	}
	if prefs.ScheduleMinutes > 0 {
		return time.Duration(prefs.ScheduleMinutes) * time.Minute, nil
	}
	return a.cfg.Workers.SyncInterval, nil
}

// Status prints the sync state. With copyID the gist id is also placed on
// the clipboard.
func (a *App) Status(ctx context.Context, copyID bool) error {
	meta, running, err := a.services.SyncService.Status(ctx)
	if err != nil {
		return fmt.Errorf("load status: %w", err)
	}
	a.ui.Print(tui.RenderStatus(meta, running))

	if !copyID {
		return nil
	}
	if meta.ObjectID == "" {
		return fmt.Errorf("nothing to copy: %w", adapter.ErrRemoteNotFound)
	}
	if err = a.clipboard.WriteAll(meta.ObjectID); err != nil {
		return fmt.Errorf("copy gist id: %w", err)
	}
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	return a.services.SyncService.Reset(ctx)
}

// Unlock hands the passphrase to the session for this process.
func (a *App) Unlock(passphrase string) error {
	return a.services.CredentialService.Unlock(passphrase)
}

func (a *App) PrintPreferences(ctx context.Context) error {
	prefs, err := a.services.PolicyService.Preferences(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	a.ui.Print(tui.RenderPreferences(prefs))
	return nil
}

// logSink records stages of background syncs at debug level.
func logSink(log *logger.Logger) service.StageSink {
	return service.SinkFunc(func(msg models.StageMessage) {
		if msg.Stage == models.StageError {
			log.Warn().Str("stage", string(msg.Stage)).Str("error", msg.Error).Msg("background sync failed")
			return
		}
		log.Debug().Str("stage", string(msg.Stage)).Msg("background sync stage")
	})
}
