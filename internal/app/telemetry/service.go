package telemetry

import (
	"context"

	"setlist/internal/store"
)

// Store describes the persistence operations required for telemetry.
type Store interface {
	InsertPageView(ctx context.Context, view store.PageView) error
}

// Service records page-view telemetry.
type Service interface {
	RecordPageView(ctx context.Context, view store.PageView) error
}

type service struct {
	store Store
}

// New wires a Service backed by the provided Store.
func New(s Store) Service {
	return &service{store: s}
}

func (s *service) RecordPageView(ctx context.Context, view store.PageView) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.InsertPageView(ctx, view)
}
