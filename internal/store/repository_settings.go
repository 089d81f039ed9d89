// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
)

type settingsRepository struct {
	db     *DB
	now    func() time.Time
	logger *logger.Logger
}

func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (models.Setting, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetSettingQuery(key)
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.Get").Str("key", key).Msg("failed to build query")
		return models.Setting{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var s models.Setting
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.Key, &s.Value, &s.Version, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Setting{}, ErrSettingNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.Get").Str("key", key).Msg("failed to read setting")
		return models.Setting{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return s, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertSettingQuery(key, value, r.now())
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.Set").Str("key", key).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "settingsRepository.Set").Str("key", key).Msg("failed to upsert setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *settingsRepository) CompareAndSwap(ctx context.Context, key, value string, version int64) error {
	log := logger.FromContext(ctx)

	var (
		query string
		args  []any
		err   error
	)
	if version == 0 {
		query, args, err = buildInsertSettingIfAbsentQuery(key, value, r.now())
	} else {
		query, args, err = buildCompareAndSwapQuery(key, value, version, r.now())
	}
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.CompareAndSwap").Str("key", key).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.CompareAndSwap").Str("key", key).Msg("failed to swap setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Debug().Str("func", "settingsRepository.CompareAndSwap").Str("key", key).Int64("version", version).Msg("version conflict")
		return ErrVersionConflict
	}

	return nil
}

func (r *settingsRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteSettingsQuery(keys)
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.Delete").Strs("keys", keys).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "settingsRepository.Delete").Strs("keys", keys).Msg("failed to delete settings")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
