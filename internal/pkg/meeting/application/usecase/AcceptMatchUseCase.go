package usecase

import (
	"context"
	"errors"
	"fmt"

	busport "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// AcceptMatchInput identifies the room whose handshake is being accepted.
type AcceptMatchInput struct {
	RoomID string
}

// AcceptMatchUseCase counts one acceptance during the handshake phase and
// publishes the running total on the room's topic. Accepts are only valid
// while the room is awaiting acceptance; the reactor decides when the total
// completes the handshake.
type AcceptMatchUseCase struct {
	Rooms repository.WaitingRoomRepository
	Bus   busport.Bus
}

func NewAcceptMatchUseCase(rooms repository.WaitingRoomRepository, bus busport.Bus) *AcceptMatchUseCase {
	return &AcceptMatchUseCase{Rooms: rooms, Bus: bus}
}

func (uc *AcceptMatchUseCase) Execute(ctx context.Context, in AcceptMatchInput) error {
	if in.RoomID == "" {
		return fmt.Errorf("room id is required")
	}

	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		room, err := uc.Rooms.Get(ctx, in.RoomID)
		if err != nil {
			if errors.Is(err, meeting.ErrRoomNotFound) {
				return meeting.ErrRoomNotFound
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		if room.State != meeting.StateAwaitingAcceptance {
			return meeting.ErrRoomClosed
		}

		room.AcceptCount++

		err = uc.Rooms.Save(ctx, room)
		if err == nil {
			event := meeting.RoomEvent{Type: meeting.EventAccept, Count: room.AcceptCount}
			if err := uc.Bus.Publish(ctx, meeting.Topic(room.ID), event.Encode()); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return nil
		}
		if !errors.Is(err, meeting.ErrRaceLost) {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		lastErr = err
	}
	return fmt.Errorf("accept: %w", lastErr)
}
