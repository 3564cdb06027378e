package repository

import (
	"context"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
)

// SelectionRepository keeps the short-lived post-session selection lists.
// Push appends and (re)arms the list's TTL; List returns selections in
// insertion order, re-arming the TTL as a side effect, and yields an empty
// slice for absent or expired sessions.
type SelectionRepository interface {
	Push(ctx context.Context, sessionID string, s meeting.Selection) error
	List(ctx context.Context, sessionID string) ([]meeting.Selection, error)
}
