package repository

import (
	"context"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
)

// WaitingRoomRepository persists waiting rooms in the shared store.
//
// Save is a conditional write: it succeeds only when the stored version
// still equals room.Version (0 for a new room) and bumps room.Version on
// success. A conflicting concurrent write surfaces as ErrRaceLost; callers
// re-read and retry. The record's store expiry follows room.ExpirySeconds.
type WaitingRoomRepository interface {
	Get(ctx context.Context, id string) (*meeting.WaitingRoom, error)
	Save(ctx context.Context, room *meeting.WaitingRoom) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*meeting.WaitingRoom, error)
}
