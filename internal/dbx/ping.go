package dbx

import (
	"context"
	"time"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Connection states reported by health checks.
const (
	StateDisconnected = 0
	StateConnected    = 1
)

// ReadyState pings p with the given timeout and reports StateConnected or
// StateDisconnected.
func ReadyState(ctx context.Context, p Pinger, timeout time.Duration) int {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return StateDisconnected
	}
	return StateConnected
}
