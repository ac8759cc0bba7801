package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/welcome/internal/domain"
)

// settingsRowID is the primary key of the single app_settings row.
const settingsRowID = 1

// SettingsRepository handles database operations for application settings.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get retrieves the stored settings.
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	query, args, err := psql.
		Select("app_name", "locale", "updated_at").
		From("app_settings").
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Get settings query: %w", err)
	}

	var settings domain.Settings
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&settings.AppName,
		&settings.Locale,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("query settings: %w", err)
	}

	return &settings, nil
}

// Upsert stores the settings, replacing any existing row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings domain.Settings) error {
	query, args, err := psql.
		Insert("app_settings").
		Columns("id", "app_name", "locale", "updated_at").
		Values(settingsRowID, settings.AppName, settings.Locale, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET app_name = EXCLUDED.app_name, locale = EXCLUDED.locale, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert settings query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}

// Delete removes the stored settings. Deleting a missing row is not an error.
func (r *SettingsRepository) Delete(ctx context.Context) error {
	query, args, err := psql.
		Delete("app_settings").
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete settings query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}

	return nil
}
