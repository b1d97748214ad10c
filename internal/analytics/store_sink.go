package analytics

import (
	"context"

	"github.com/zubinqayam/zq-portfolio/internal/store"
)

// StoreSink persists events in the site database.
type StoreSink struct {
	Store *store.Store
}

func (s StoreSink) Track(ctx context.Context, e Event) error {
	return s.Store.SaveEvent(ctx, store.Event{
		Name:      e.Name,
		Category:  e.Category,
		Label:     e.Label,
		Value:     e.Value,
		Path:      e.Path,
		CreatedAt: e.At,
	})
}
