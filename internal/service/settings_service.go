package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/welcome/internal/domain"
)

// ErrNoStore is returned by Update when no settings store is configured.
var ErrNoStore = errors.New("settings store not configured")

// SettingsStore persists the welcome page settings.
type SettingsStore interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Upsert(ctx context.Context, settings domain.Settings) error
	Delete(ctx context.Context) error
}

// SettingsService resolves the effective settings for a render.
// Values from flags and environment form the base; stored values override them.
type SettingsService struct {
	base  domain.Settings
	store SettingsStore
}

// NewSettingsService creates a SettingsService. store may be nil.
func NewSettingsService(base domain.Settings, store SettingsStore) *SettingsService {
	return &SettingsService{
		base:  base,
		store: store,
	}
}

// Resolve returns the effective settings. It never fails: a missing or
// unreachable store yields the base settings.
func (s *SettingsService) Resolve(ctx context.Context) domain.Settings {
	if s.store == nil {
		return s.base
	}

	stored, err := s.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSettingsNotFound) {
			slog.WarnContext(ctx, "failed to load stored settings, using defaults", "error", err)
		}
		return s.base
	}

	return s.base.Merge(*stored)
}

// Stored returns the persisted settings.
func (s *SettingsService) Stored(ctx context.Context) (*domain.Settings, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	stored, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stored settings: %w", err)
	}
	return stored, nil
}

// Update validates and persists settings.
func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) error {
	if s.store == nil {
		return ErrNoStore
	}

	if strings.TrimSpace(settings.AppName) == "" && strings.TrimSpace(settings.Locale) == "" {
		return domain.ErrEmptySettings
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.store.Upsert(ctx, settings); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}

	slog.InfoContext(ctx, "settings updated",
		"app_name", settings.AppName,
		"locale", settings.Locale,
	)
	return nil
}

// Clear removes the persisted settings so flags and environment apply again.
func (s *SettingsService) Clear(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}

	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}

	slog.InfoContext(ctx, "settings cleared")
	return nil
}
