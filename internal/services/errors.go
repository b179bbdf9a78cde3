package services

import "errors"

var (
	// ErrUnknownProvider is returned for a provider name no client exists for.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrMissingAPIKey is returned when no credential could be resolved for a provider.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrNotInitialized is returned by services used before Initialize.
	ErrNotInitialized = errors.New("service not initialized")
)
