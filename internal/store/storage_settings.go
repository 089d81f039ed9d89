// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
)

// Keys of the settings table.
const (
	KeySyncMeta    = "sync_meta"
	KeyPreferences = "preferences"
	KeyToken       = "token"
)

const maxSwapAttempts = 5

// metaRecord is the persisted form of [models.SyncMetadata]; unknown values
// are stored as null.
type metaRecord struct {
	ObjectID string  `json:"objectId"`
	ETag     *string `json:"etag"`
	LastHash *string `json:"lastHash"`
}

type settingsStorage struct {
	repo   SettingsRepository
	logger *logger.Logger
}

// NewSettingsStorage returns the typed settings view over repo.
func NewSettingsStorage(repo SettingsRepository, logger *logger.Logger) SettingsStorage {
	return &settingsStorage{repo: repo, logger: logger}
}

func (s *settingsStorage) LoadMeta(ctx context.Context) (models.SyncMetadata, error) {
	meta, _, err := load(ctx, s.repo, KeySyncMeta, decodeMeta)
	return meta, err
}

func (s *settingsStorage) UpdateMeta(ctx context.Context, fn func(*models.SyncMetadata) error) (models.SyncMetadata, error) {
	return update(ctx, s.repo, KeySyncMeta, decodeMeta, encodeMeta, fn)
}

func (s *settingsStorage) ClearMeta(ctx context.Context) error {
	logger.FromContext(ctx).Info().Str("func", "settingsStorage.ClearMeta").Msg("sync metadata cleared")
	return s.repo.Delete(ctx, KeySyncMeta)
}

func (s *settingsStorage) LoadPrefs(ctx context.Context) (models.Preferences, error) {
	prefs, _, err := load(ctx, s.repo, KeyPreferences, decodePrefs)
	return prefs, err
}

func (s *settingsStorage) UpdatePrefs(ctx context.Context, fn func(*models.Preferences) error) (models.Preferences, error) {
	return update(ctx, s.repo, KeyPreferences, decodePrefs, encodePrefs, fn)
}

// load reads and decodes key. A missing row yields the zero value and
// version 0.
func load[T any](ctx context.Context, repo SettingsRepository, key string, decode func(string) (T, error)) (T, int64, error) {
	var zero T

	row, err := repo.Get(ctx, key)
	if errors.Is(err, ErrSettingNotFound) {
		return zero, 0, nil
	}
	if err != nil {
		return zero, 0, fmt.Errorf("load %s: %w", key, err)
	}

	v, err := decode(row.Value)
	if err != nil {
		return zero, 0, fmt.Errorf("%w: %s: %w", ErrCorruptSetting, key, err)
	}
	return v, row.Version, nil
}

// update is a read-modify-write loop on compare-and-swap. fn may run more
// than once when another writer races it.
func update[T any](
	ctx context.Context,
	repo SettingsRepository,
	key string,
	decode func(string) (T, error),
	encode func(T) (string, error),
	fn func(*T) error,
) (T, error) {
	var zero T

	for range maxSwapAttempts {
		cur, version, err := load(ctx, repo, key, decode)
		if err != nil {
			return zero, err
		}

		if err = fn(&cur); err != nil {
			return zero, err
		}

		value, err := encode(cur)
		if err != nil {
			return zero, fmt.Errorf("encode %s: %w", key, err)
		}

		err = repo.CompareAndSwap(ctx, key, value, version)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return zero, fmt.Errorf("store %s: %w", key, err)
		}
		return cur, nil
	}

	return zero, fmt.Errorf("%w: %s", ErrTooManyConflicts, key)
}

func decodeMeta(value string) (models.SyncMetadata, error) {
	var rec metaRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return models.SyncMetadata{}, err
	}

	meta := models.SyncMetadata{ObjectID: rec.ObjectID}
	if rec.ETag != nil {
		meta.ETag = *rec.ETag
	}
	if rec.LastHash != nil {
		meta.LastHash = *rec.LastHash
	}
	return meta, nil
}

func encodeMeta(meta models.SyncMetadata) (string, error) {
	rec := metaRecord{ObjectID: meta.ObjectID}
	if meta.ETag != "" {
		rec.ETag = &meta.ETag
	}
	if meta.LastHash != "" {
		rec.LastHash = &meta.LastHash
	}

	data, err := json.Marshal(rec)
	return string(data), err
}

func decodePrefs(value string) (models.Preferences, error) {
	var prefs models.Preferences
	err := json.Unmarshal([]byte(value), &prefs)
	return prefs, err
}

func encodePrefs(prefs models.Preferences) (string, error) {
	data, err := json.Marshal(prefs)
	return string(data), err
}
