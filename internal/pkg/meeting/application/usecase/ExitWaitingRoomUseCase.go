package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// ExitWaitingRoomInput identifies the leaving participant and their room.
type ExitWaitingRoomInput struct {
	Identity string
	RoomID   string
}

// ExitWaitingRoomUseCase removes a participant from a room, deleting the
// room (and releasing its topic watch) when the last member leaves. Exits
// publish no count event: the reactor only ever observes rooms growing.
// Membership is frozen once the room leaves COLLECTING; leaving a room in
// the handshake or issuance phase is rejected.
type ExitWaitingRoomUseCase struct {
	Rooms   repository.WaitingRoomRepository
	Watcher RoomWatcher
}

func NewExitWaitingRoomUseCase(rooms repository.WaitingRoomRepository, watcher RoomWatcher) *ExitWaitingRoomUseCase {
	return &ExitWaitingRoomUseCase{Rooms: rooms, Watcher: watcher}
}

func (uc *ExitWaitingRoomUseCase) Execute(ctx context.Context, in ExitWaitingRoomInput) error {
	if in.Identity == "" || in.RoomID == "" {
		return fmt.Errorf("identity and room id are required")
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

		if room.State != meeting.StateCollecting {
			return meeting.ErrRoomClosed
		}

		room.RemoveMember(in.Identity)

		if room.MemberCount() == 0 {
			if err := uc.Rooms.Delete(ctx, room.ID); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			_ = uc.Watcher.Unwatch(room.ID)
			log.Info().Str("room", room.ID).Str("identity", in.Identity).Msg("last member left, waiting room deleted")
			return nil
		}

		err = uc.Rooms.Save(ctx, room)
		if err == nil {
			log.Info().Str("room", room.ID).Str("identity", in.Identity).Int("members", room.MemberCount()).
				Msg("participant left waiting room")
			return nil
		}
		if !errors.Is(err, meeting.ErrRaceLost) {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		lastErr = err
	}
	return fmt.Errorf("exit: %w", lastErr)
}
