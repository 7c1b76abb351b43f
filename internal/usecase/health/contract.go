package health

import "context"

// HistoryChecker checks history store availability.
type HistoryChecker interface {
	Ping(ctx context.Context) error
}

// UpstreamPinger checks minutes API availability.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}
