package store

import (
	"context"

	"sunviewgo/pkg/model"
)

// AirportStore handles airport persistence. Lookups return (nil, nil) for a
// clean miss so callers can distinguish "not cached" from a storage failure.
type AirportStore interface {
	GetAirport(ctx context.Context, iata string) (*model.Airport, error)
	SearchAirports(ctx context.Context, query string, limit int) ([]*model.Airport, error)
	SaveAirport(ctx context.Context, a *model.Airport) error
}

// Store composes all sub-interfaces for full store access. Consumers should
// depend on specific sub-interfaces when possible.
type Store interface {
	AirportStore

	// Close closes the store connection.
	Close() error
}
