package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// PgMatchLogRepository appends completed matches to the meeting.match_log
// table. Append-only: there is deliberately no update or delete path.
type PgMatchLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgMatchLogRepository(pool *pgxpool.Pool) *PgMatchLogRepository {
	return &PgMatchLogRepository{pool: pool}
}

// Ensure interface compliance at compile time
var _ repository.MatchLogRepository = (*PgMatchLogRepository)(nil)

func (r *PgMatchLogRepository) Append(ctx context.Context, matchID string, participantIdentity string, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMatchLogRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO meeting.match_log (match_id, participant_identity, created_at)
		VALUES ($1::uuid, $2, $3)
	`, matchID, participantIdentity, at)
	return err
}
