package domain

import "errors"

var (
	// ErrScreenNotFound is returned when a screen identifier is not in the catalog.
	ErrScreenNotFound = errors.New("quiz screen not found")
	// ErrSessionNotFound is returned when no session is stored for an identifier.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSummaryBlocked is returned when the final summary is requested before every screen is completed.
	ErrSummaryBlocked = errors.New("final summary locked until all screens are completed")
	// ErrInvalidCatalog indicates the catalog data failed validation.
	ErrInvalidCatalog = errors.New("invalid quiz catalog")
)
