package port

import (
	"context"
	"fmt"
)

// Provider is the boundary to the external video-session service. A session
// is created once per completed match; each participant then receives their
// own connection token to join it.
type Provider interface {
	// CreateSession provisions a new video session and returns its handle.
	CreateSession(ctx context.Context) (string, error)

	// CreateConnection mints a single-participant connection token for the
	// given session handle.
	CreateConnection(ctx context.Context, sessionID string) (string, error)
}

// ErrProvider wraps any failure of the external service. Session issuance
// for a room aborts when it surfaces; it is never retried automatically.
var ErrProvider = fmt.Errorf("video: provider failure")
