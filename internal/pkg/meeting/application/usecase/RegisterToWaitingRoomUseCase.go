package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	busport "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// RoomWatcher owns the per-room topic subscriptions of the lifecycle
// reactor. The register use case arms a watch when it creates a room; exit
// and the reactor itself release it when the room goes away.
type RoomWatcher interface {
	Watch(ctx context.Context, roomID string) error
	Unwatch(roomID string) error
}

// RoomPolicy decides whether a participant may join an existing room.
// Compatibility filtering (classification/gender balance) plugs in here;
// the default accepts the first room that is still collecting and below
// capacity.
type RoomPolicy func(room *meeting.WaitingRoom, p meeting.Participant) bool

// DefaultRoomPolicy is the documented first-under-capacity selection rule.
func DefaultRoomPolicy(room *meeting.WaitingRoom, _ meeting.Participant) bool {
	return room.State == meeting.StateCollecting && !room.IsFull()
}

// RegisterToWaitingRoomInput carries the registering participant.
type RegisterToWaitingRoomInput struct {
	Participant meeting.Participant
}

// RegisterToWaitingRoomUseCase places a participant into the first eligible
// waiting room, creating one when none exists, and publishes the new member
// count on the room's topic. Conditional writes replace process-local
// locking: losing the write race re-selects a room and tries again.
type RegisterToWaitingRoomUseCase struct {
	Rooms   repository.WaitingRoomRepository
	Bus     busport.Bus
	Watcher RoomWatcher
	Policy  RoomPolicy
}

func NewRegisterToWaitingRoomUseCase(rooms repository.WaitingRoomRepository, bus busport.Bus, watcher RoomWatcher, policy RoomPolicy) *RegisterToWaitingRoomUseCase {
	if policy == nil {
		policy = DefaultRoomPolicy
	}
	return &RegisterToWaitingRoomUseCase{Rooms: rooms, Bus: bus, Watcher: watcher, Policy: policy}
}

// Execute returns the id of the room the participant ended up in.
func (uc *RegisterToWaitingRoomUseCase) Execute(ctx context.Context, in RegisterToWaitingRoomInput) (string, error) {
	if in.Participant.Identity == "" {
		return "", fmt.Errorf("participant identity is required")
	}

	var lastErr error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		roomID, err := uc.tryRegister(ctx, in.Participant)
		if err == nil {
			return roomID, nil
		}
		if !errors.Is(err, meeting.ErrRaceLost) && !errors.Is(err, meeting.ErrRoomFull) && !errors.Is(err, meeting.ErrRoomClosed) {
			return "", err
		}
		// Someone else changed the room between read and write; pick again.
		lastErr = err
	}
	return "", fmt.Errorf("register: %w", lastErr)
}

func (uc *RegisterToWaitingRoomUseCase) tryRegister(ctx context.Context, p meeting.Participant) (string, error) {
	room, created, err := uc.selectRoom(ctx, p)
	if err != nil {
		return "", err
	}

	if err := room.AddMember(p); err != nil {
		return "", err
	}

	if err := uc.Rooms.Save(ctx, room); err != nil {
		if created {
			// The fresh room never made it into the store; drop its watch.
			_ = uc.Watcher.Unwatch(room.ID)
		}
		if errors.Is(err, meeting.ErrRaceLost) {
			return "", meeting.ErrRaceLost
		}
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	event := meeting.RoomEvent{Type: meeting.EventRegister, Count: room.MemberCount()}
	if err := uc.Bus.Publish(ctx, meeting.Topic(room.ID), event.Encode()); err != nil {
		// The membership write already happened, so the room exists and keeps
		// its watch; surface the publish failure without unwinding either.
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	log.Info().Str("room", room.ID).Str("identity", p.Identity).Int("members", room.MemberCount()).
		Bool("created", created).Msg("participant registered to waiting room")
	return room.ID, nil
}

// selectRoom returns the first room the policy accepts, or a freshly created
// room with its topic watch already armed.
func (uc *RegisterToWaitingRoomUseCase) selectRoom(ctx context.Context, p meeting.Participant) (*meeting.WaitingRoom, bool, error) {
	rooms, err := uc.Rooms.ListAll(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	for _, room := range rooms {
		if room.HasMember(p.Identity) {
			return room, false, nil
		}
		if uc.Policy(room, p) {
			return room, false, nil
		}
	}

	room := meeting.NewWaitingRoom()
	if err := uc.Watcher.Watch(ctx, room.ID); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return room, true, nil
}
