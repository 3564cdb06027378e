package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	storeport "github.com/JEGHTNER/Zooting/internal/infrastructure/store/port"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// roomKeyPrefix namespaces waiting-room records in the shared store.
const roomKeyPrefix = "meeting:room:"

// StoreWaitingRoomRepository maps waiting rooms onto the versioned key-value
// store: one JSON record per room, conditional writes through the store's
// compare-and-swap put.
type StoreWaitingRoomRepository struct {
	store storeport.Store
}

func NewStoreWaitingRoomRepository(store storeport.Store) *StoreWaitingRoomRepository {
	return &StoreWaitingRoomRepository{store: store}
}

// Ensure interface compliance at compile time
var _ repository.WaitingRoomRepository = (*StoreWaitingRoomRepository)(nil)

func (r *StoreWaitingRoomRepository) Get(ctx context.Context, id string) (*meeting.WaitingRoom, error) {
	rec, err := r.store.Get(ctx, roomKeyPrefix+id)
	if errors.Is(err, storeport.ErrNotFound) {
		return nil, meeting.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("waiting room %s: %w", id, err)
	}
	return decodeRoom(rec)
}

func (r *StoreWaitingRoomRepository) Save(ctx context.Context, room *meeting.WaitingRoom) error {
	value, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("waiting room %s: encode: %w", room.ID, err)
	}

	ttl := time.Duration(0)
	if room.ExpirySeconds > 0 {
		ttl = time.Duration(room.ExpirySeconds) * time.Second
	}

	version, err := r.store.PutVersioned(ctx, roomKeyPrefix+room.ID, value, room.Version, ttl)
	if errors.Is(err, storeport.ErrConflict) {
		return meeting.ErrRaceLost
	}
	if err != nil {
		return fmt.Errorf("waiting room %s: save: %w", room.ID, err)
	}
	room.Version = version
	return nil
}

func (r *StoreWaitingRoomRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, roomKeyPrefix+id); err != nil {
		return fmt.Errorf("waiting room %s: delete: %w", id, err)
	}
	return nil
}

func (r *StoreWaitingRoomRepository) ListAll(ctx context.Context) ([]*meeting.WaitingRoom, error) {
	records, err := r.store.List(ctx, roomKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("waiting rooms: list: %w", err)
	}
	rooms := make([]*meeting.WaitingRoom, 0, len(records))
	for _, rec := range records {
		room, err := decodeRoom(rec)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func decodeRoom(rec storeport.Record) (*meeting.WaitingRoom, error) {
	var room meeting.WaitingRoom
	if err := json.Unmarshal(rec.Value, &room); err != nil {
		return nil, fmt.Errorf("waiting room record %s: decode: %w", rec.Key, err)
	}
	room.Version = rec.Version
	return &room, nil
}
