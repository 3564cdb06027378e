package repository

import (
	"context"
	"time"
)

// MatchLogRepository appends to the permanent record of completed matches.
// One row per participant per match; rows are never updated or deleted.
type MatchLogRepository interface {
	Append(ctx context.Context, matchID string, participantIdentity string, at time.Time) error
}
