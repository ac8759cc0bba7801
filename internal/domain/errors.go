package domain

import "errors"

// Domain-specific errors for settings handling.
var (
	// Settings errors
	ErrSettingsNotFound = errors.New("settings not found")

	// Validation errors
	ErrInvalidLocale  = errors.New("invalid locale")
	ErrAppNameTooLong = errors.New("application name is too long")
	ErrEmptySettings  = errors.New("application name or locale is required")
)
