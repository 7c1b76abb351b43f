package history

import (
	"context"

	domhist "github.com/kailas-cloud/gijidex/internal/domain/history"
)

// Store is the consumer interface for the history repository.
type Store interface {
	List(ctx context.Context, limit int) ([]domhist.Entry, error)
	Clear(ctx context.Context) error
}
