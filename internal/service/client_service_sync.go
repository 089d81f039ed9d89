// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/adapter"
	"github.com/MKhiriev/go-cookie-sync/internal/codec"
	"github.com/MKhiriev/go-cookie-sync/internal/cookies"
	"github.com/MKhiriev/go-cookie-sync/internal/crypto"
	"github.com/MKhiriev/go-cookie-sync/internal/filter"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/store"
	"github.com/MKhiriev/go-cookie-sync/internal/utils"
	"github.com/MKhiriev/go-cookie-sync/models"
)

type clientSyncService struct {
	settings    store.SettingsStorage
	credentials ClientCredentialService
	remote      adapter.RemoteStore
	jar         cookies.Store
	engine      crypto.Engine

	guard flightGuard
	ids   *utils.UUIDGenerator
	now   func() time.Time

	logger *logger.Logger
}

// NewClientSyncService wires the sync state machine. One instance must be
// shared by every caller in the process, since the single-flight lock lives
// in it.
func NewClientSyncService(
	settings store.SettingsStorage,
	credentials ClientCredentialService,
	remote adapter.RemoteStore,
	jar cookies.Store,
	engine crypto.Engine,
	logger *logger.Logger,
) ClientSyncService {
	return &clientSyncService{
		settings:    settings,
		credentials: credentials,
		remote:      remote,
		jar:         jar,
		engine:      engine,
		ids:         utils.NewUUIDGenerator(),
		now:         time.Now,
		logger:      logger,
	}
}

// syncRun tracks the stage of one SyncNow call.
type syncRun struct {
	sink   StageSink
	stage  models.Stage
	report *models.SyncReport
}

func (r *syncRun) enter(stage models.Stage) {
	r.stage = stage
	r.sink.Emit(models.StageMessage{Stage: stage})
}

func (r *syncRun) fail(err error) *StageError {
	stageErr := &StageError{Stage: r.stage, Err: mapSyncError(err)}
	r.sink.Emit(models.StageMessage{Stage: models.StageError, Error: stageErr.Error()})
	return stageErr
}

func (s *clientSyncService) SyncNow(ctx context.Context, direction models.SyncDirection, sink StageSink) (models.SyncReport, error) {
	report := models.SyncReport{Direction: direction}
	if !direction.Valid() {
		return report, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if sink == nil {
		sink = NopSink
	}

	token, ok := s.guard.tryAcquire()
	if !ok {
		s.logger.Debug().Str("func", "clientSyncService.SyncNow").
			Str("direction", string(direction)).
			Msg("sync already in flight, dropping request")
		report.Dropped = true
		return report, nil
	}
	defer s.guard.release(token)

	report.RunID = s.ids.Generate()
	ctx, log := s.logger.WithRunID(ctx, report.RunID)
	ctx = utils.WithRunID(ctx, report.RunID)
	started := s.now()

	run := &syncRun{sink: sink, stage: models.StageIdle, report: &report}
	if err := s.run(ctx, run, direction); err != nil {
		stageErr := run.fail(err)
		log.Err(err).Str("func", "clientSyncService.SyncNow").
			Str("direction", string(direction)).
			Str("stage", string(stageErr.Stage)).
			Msg("sync failed")
		return report, stageErr
	}

	run.enter(models.StageDone)
	log.Info().Str("func", "clientSyncService.SyncNow").
		Str("direction", string(direction)).
		Bool("remote_missing", report.RemoteMissing).
		Bool("not_modified", report.NotModified).
		Bool("pushed", report.Pushed).
		Bool("push_skipped", report.PushSkipped).
		Int("applied", report.Applied).
		Int("failed", report.Failed).
		Int("filtered", report.Filtered).
		Dur("took", s.now().Sub(started)).
		Msg("sync finished")
	return report, nil
}

func (s *clientSyncService) run(ctx context.Context, run *syncRun, direction models.SyncDirection) error {
	creds, err := s.credentials.Credentials(ctx)
	if err != nil {
		return err
	}

	prefs, err := s.settings.LoadPrefs(ctx)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	policy := filter.FromPreferences(prefs)

	switch direction {
	case models.SyncPull:
		_, err = s.pull(ctx, run, creds, policy)
		return err
	case models.SyncPush:
		return s.push(ctx, run, creds, policy, "")
	default:
		etag, err := s.pull(ctx, run, creds, policy)
		if err != nil {
			return err
		}
		return s.push(ctx, run, creds, policy, etag)
	}
}

// pull restores the remote dump into the local jar and returns the remote
// ETag it saw, or "" when there is no remote data.
func (s *clientSyncService) pull(ctx context.Context, run *syncRun, creds models.Credentials, policy filter.Policy) (string, error) {
	log := logger.FromContext(ctx)

	meta, err := s.settings.LoadMeta(ctx)
	if err != nil {
		return "", fmt.Errorf("load sync metadata: %w", err)
	}

	run.enter(models.StageDownloading)

	if meta.ObjectID == "" {
		obj, err := s.remote.Locate(ctx, creds.Token)
		if errors.Is(err, adapter.ErrRemoteNotFound) {
			log.Info().Str("func", "clientSyncService.pull").Msg("no remote object yet, push first")
			run.report.RemoteMissing = true
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("locate remote object: %w", err)
		}

		if meta, err = s.rememberObject(ctx, obj); err != nil {
			return "", err
		}
	}

	blob, err := s.remote.Fetch(ctx, creds.Token, meta.ObjectID, meta.ETag)
	switch {
	case errors.Is(err, adapter.ErrNotModified):
		run.report.NotModified = true
		run.report.ETag = meta.ETag
		return meta.ETag, nil

	case errors.Is(err, adapter.ErrRemoteEmpty):
		run.report.RemoteMissing = true
		return "", nil

	case errors.Is(err, adapter.ErrRemoteNotFound):
		log.Warn().Str("func", "clientSyncService.pull").Str("object_id", meta.ObjectID).
			Msg("cached remote object is gone, forgetting it")
		if err = s.forgetObject(ctx, meta.ObjectID); err != nil {
			return "", err
		}
		run.report.RemoteMissing = true
		return "", nil

	case err != nil:
		return "", fmt.Errorf("fetch remote object: %w", err)
	}

	run.enter(models.StageDecrypting)
	dump, err := crypto.DecryptDump(s.engine, creds.Passphrase, blob.Content)
	if err != nil {
		return "", err
	}

	run.enter(models.StageApplying)
	now := s.now().Unix()
	live := make([]models.Cookie, 0, len(dump.Cookies))
	for _, c := range dump.Cookies {
		if c.Expired(now) {
			run.report.Expired++
			continue
		}
		live = append(live, c)
	}

	kept, dropped := policy.Apply(live)
	run.report.Filtered += dropped

	res, err := s.jar.Apply(ctx, kept)
	run.report.Applied += res.Applied
	run.report.Failed += res.Failed
	if err != nil {
		return "", fmt.Errorf("apply cookies: %w", err)
	}

	if _, err = s.settings.UpdateMeta(ctx, func(m *models.SyncMetadata) error {
		m.ObjectID = meta.ObjectID
		m.ETag = blob.ETag
		return nil
	}); err != nil {
		return "", fmt.Errorf("save sync metadata: %w", err)
	}

	run.report.ETag = blob.ETag
	return blob.ETag, nil
}

// push uploads the filtered local jar. It skips the upload when the dump is
// unchanged since the last push and the remote ETag still matches hint.
func (s *clientSyncService) push(ctx context.Context, run *syncRun, creds models.Credentials, policy filter.Policy, hint string) error {
	log := logger.FromContext(ctx)

	run.enter(models.StageDumping)
	local, err := s.jar.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list local cookies: %w", err)
	}

	run.enter(models.StageFiltering)
	kept, dropped := policy.Apply(local)
	run.report.Filtered += dropped
	dump := codec.NewDump(kept, policy.Filters, s.now().UnixMilli())

	hash, err := s.engine.HashDump(dump)
	if err != nil {
		return fmt.Errorf("hash dump: %w", err)
	}

	meta, err := s.settings.LoadMeta(ctx)
	if err != nil {
		return fmt.Errorf("load sync metadata: %w", err)
	}

	if unchanged(meta, hash, hint) {
		log.Debug().Str("func", "clientSyncService.push").Int("cookies", len(kept)).
			Msg("local jar unchanged since last push, skipping upload")
		run.report.PushSkipped = true
		run.report.ETag = meta.ETag
		return nil
	}

	run.enter(models.StageEncrypting)
	blob, err := crypto.EncryptDump(s.engine, creds.Passphrase, dump)
	if err != nil {
		return fmt.Errorf("encrypt dump: %w", err)
	}

	run.enter(models.StageUploading)
	if meta.ObjectID == "" {
		obj, err := s.remote.LocateOrCreate(ctx, creds.Token)
		if err != nil {
			return fmt.Errorf("locate or create remote object: %w", err)
		}
		if meta, err = s.rememberObject(ctx, obj); err != nil {
			return err
		}
	}

	etag, err := s.remote.Push(ctx, creds.Token, meta.ObjectID, meta.ETag, blob)
	if errors.Is(err, adapter.ErrRemoteNotFound) {
		if forgetErr := s.forgetObject(ctx, meta.ObjectID); forgetErr != nil {
			log.Err(forgetErr).Str("func", "clientSyncService.push").Msg("failed to forget missing remote object")
		}
	}
	if err != nil {
		return fmt.Errorf("push remote object: %w", err)
	}

	if _, err = s.settings.UpdateMeta(ctx, func(m *models.SyncMetadata) error {
		m.ObjectID = meta.ObjectID
		m.ETag = etag
		m.LastHash = hash
		return nil
	}); err != nil {
		return fmt.Errorf("save sync metadata: %w", err)
	}

	run.report.Pushed = true
	run.report.ETag = etag
	return nil
}

func unchanged(meta models.SyncMetadata, hash, hint string) bool {
	if meta.ObjectID == "" || meta.LastHash == "" || meta.LastHash != hash {
		return false
	}
	return hint == "" || hint == meta.ETag
}

// rememberObject stores a freshly located or created object id. A different
// object invalidates the cached ETag and hash.
func (s *clientSyncService) rememberObject(ctx context.Context, obj models.RemoteObject) (models.SyncMetadata, error) {
	meta, err := s.settings.UpdateMeta(ctx, func(m *models.SyncMetadata) error {
		if m.ObjectID != obj.ID {
			*m = models.SyncMetadata{ObjectID: obj.ID, ETag: obj.ETag}
		}
		return nil
	})
	if err != nil {
		return models.SyncMetadata{}, fmt.Errorf("save remote object id: %w", err)
	}
	return meta, nil
}

func (s *clientSyncService) forgetObject(ctx context.Context, objectID string) error {
	_, err := s.settings.UpdateMeta(ctx, func(m *models.SyncMetadata) error {
		if m.ObjectID == objectID {
			*m = models.SyncMetadata{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("forget remote object: %w", err)
	}
	return nil
}

func (s *clientSyncService) Status(ctx context.Context) (models.SyncMetadata, bool, error) {
	meta, err := s.settings.LoadMeta(ctx)
	if err != nil {
		return models.SyncMetadata{}, false, fmt.Errorf("load sync metadata: %w", err)
	}
	return meta, s.guard.busy(), nil
}

func (s *clientSyncService) Reset(ctx context.Context) error {
	token, ok := s.guard.tryAcquire()
	if !ok {
		return ErrSyncInProgress
	}
	defer s.guard.release(token)

	if err := s.settings.ClearMeta(ctx); err != nil {
		return fmt.Errorf("clear sync metadata: %w", err)
	}
	s.logger.Info().Str("func", "clientSyncService.Reset").Msg("sync metadata cleared")
	return nil
}
