package subscriber

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	busport "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/realtime"
	videoport "github.com/JEGHTNER/Zooting/internal/infrastructure/video/port"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// Notifier delivers a tagged frame to one participant's push channel. It
// reports delivery best-effort; participants without a live socket miss the
// push.
type Notifier interface {
	Notify(identity string, frameType string, payload any) bool
}

// SessionGrant is the payload of a SESSION push: the participant's own
// connection token plus their opposite-group room-mates.
type SessionGrant struct {
	SessionID    string          `json:"sessionId"`
	Token        string          `json:"token"`
	Participants []CoParticipant `json:"participants"`
}

// CoParticipant is the subset of a room-mate surfaced at session issuance.
type CoParticipant struct {
	Nickname       string `json:"nickname"`
	Classification string `json:"classification"`
}

// WaitingRoomSubscriber reacts to the count events published on each room's
// topic and drives the room through its lifecycle: a full room enters the
// accept handshake, a fully accepted room gets session tokens and is torn
// down. It owns every per-room subscription; each one is created when the
// room is created and released exactly once when the room closes or is
// deleted.
type WaitingRoomSubscriber struct {
	bus      busport.Bus
	rooms    repository.WaitingRoomRepository
	matchLog repository.MatchLogRepository
	provider videoport.Provider
	notifier Notifier

	mu   sync.Mutex
	subs map[string]busport.Subscription
}

func NewWaitingRoomSubscriber(
	bus busport.Bus,
	rooms repository.WaitingRoomRepository,
	matchLog repository.MatchLogRepository,
	provider videoport.Provider,
	notifier Notifier,
) *WaitingRoomSubscriber {
	return &WaitingRoomSubscriber{
		bus:      bus,
		rooms:    rooms,
		matchLog: matchLog,
		provider: provider,
		notifier: notifier,
		subs:     make(map[string]busport.Subscription),
	}
}

// Watch arms this subscriber on the room's topic. Watching an already
// watched room is a no-op.
func (s *WaitingRoomSubscriber) Watch(ctx context.Context, roomID string) error {
	s.mu.Lock()
	if _, ok := s.subs[roomID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	sub, err := s.bus.Subscribe(ctx, meeting.Topic(roomID), s.HandleMessage)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.subs[roomID]; ok {
		// Lost a concurrent Watch race; keep the first registration.
		s.mu.Unlock()
		return sub.Close()
	}
	s.subs[roomID] = sub
	s.mu.Unlock()
	return nil
}

// Unwatch releases the room's topic subscription. Unwatching an unknown
// room is a no-op.
func (s *WaitingRoomSubscriber) Unwatch(roomID string) error {
	s.mu.Lock()
	sub, ok := s.subs[roomID]
	delete(s.subs, roomID)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return sub.Close()
}

// Close releases every remaining topic subscription.
func (s *WaitingRoomSubscriber) Close() error {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]busport.Subscription)
	s.mu.Unlock()

	var firstErr error
	for _, sub := range subs {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Watching reports whether the room's topic currently has a subscription.
func (s *WaitingRoomSubscriber) Watching(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[roomID]
	return ok
}

// HandleMessage consumes one room event. Events for rooms that no longer
// exist are dropped without retry: a concurrent handler already closed the
// room. Duplicate deliveries are absorbed by re-checking the room's state
// before every transition rather than by deduplicating events.
func (s *WaitingRoomSubscriber) HandleMessage(ctx context.Context, topic string, payload string) error {
	roomID := meeting.RoomIDFromTopic(topic)

	event, err := meeting.ParseRoomEvent(payload)
	if err != nil {
		return err
	}

	room, err := s.rooms.Get(ctx, roomID)
	if errors.Is(err, meeting.ErrRoomNotFound) {
		log.Debug().Str("room", roomID).Str("event", payload).Msg("event for closed room dropped")
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case event.Type == meeting.EventRegister && event.Count == meeting.RoomCapacity && room.State == meeting.StateCollecting:
		return s.onRoomFilled(ctx, room)
	case event.Type == meeting.EventAccept && event.Count == meeting.RoomCapacity && room.State == meeting.StateAwaitingAcceptance:
		return s.onAllAccepted(ctx, room)
	default:
		return nil
	}
}

// onRoomFilled moves the room into the accept handshake: members are told
// they matched and the accept countdown starts.
func (s *WaitingRoomSubscriber) onRoomFilled(ctx context.Context, room *meeting.WaitingRoom) error {
	for attempt := 0; ; attempt++ {
		room.ArmAcceptWindow(time.Now())
		err := s.rooms.Save(ctx, room)
		if err == nil {
			break
		}
		if !errors.Is(err, meeting.ErrRaceLost) || attempt >= 2 {
			return fmt.Errorf("arm accept window for room %s: %w", room.ID, err)
		}
		room, err = s.rooms.Get(ctx, room.ID)
		if errors.Is(err, meeting.ErrRoomNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if room.State != meeting.StateCollecting {
			// Another handler already transitioned it.
			return nil
		}
	}

	log.Info().Str("room", room.ID).Msg("waiting room full, accept handshake started")
	for _, member := range room.Members {
		s.notifier.Notify(member.Identity, realtime.FrameTypeMatch, room.ID)
	}
	return nil
}

// onAllAccepted issues the video session: one token per member, a match log
// row per member, then the room is deleted and its topic released. Provider
// failure aborts issuance, leaves the room stored in ISSUING for inspection
// or retry, and tells the members the match fell through.
func (s *WaitingRoomSubscriber) onAllAccepted(ctx context.Context, room *meeting.WaitingRoom) error {
	room.State = meeting.StateIssuing
	if err := s.rooms.Save(ctx, room); err != nil {
		if errors.Is(err, meeting.ErrRaceLost) {
			// A concurrent handler is already issuing this room.
			return nil
		}
		return fmt.Errorf("mark room %s issuing: %w", room.ID, err)
	}

	sessionID, err := s.provider.CreateSession(ctx)
	if err != nil {
		s.notifyFailure(room)
		return fmt.Errorf("create session for room %s: %w", room.ID, err)
	}

	now := time.Now().UTC()
	for _, member := range room.Members {
		token, err := s.provider.CreateConnection(ctx, sessionID)
		if err != nil {
			// Tokens already handed to earlier members stay valid; this
			// partial-failure state is surfaced, not rolled back.
			s.notifyFailure(room)
			return fmt.Errorf("create connection for %s in room %s: %w", member.Identity, room.ID, err)
		}

		if err := s.matchLog.Append(ctx, room.ID, member.Identity, now); err != nil {
			s.notifyFailure(room)
			return fmt.Errorf("append match log for %s in room %s: %w", member.Identity, room.ID, err)
		}

		grant := SessionGrant{
			SessionID:    sessionID,
			Token:        token,
			Participants: coParticipants(room.OppositeParticipants(member.Identity)),
		}
		s.notifier.Notify(member.Identity, realtime.FrameTypeSession, grant)
	}

	if err := s.rooms.Delete(ctx, room.ID); err != nil {
		return fmt.Errorf("delete room %s: %w", room.ID, err)
	}
	if err := s.Unwatch(room.ID); err != nil {
		return fmt.Errorf("unwatch room %s: %w", room.ID, err)
	}

	log.Info().Str("room", room.ID).Str("session", sessionID).Msg("match completed, session issued")
	return nil
}

func (s *WaitingRoomSubscriber) notifyFailure(room *meeting.WaitingRoom) {
	for _, member := range room.Members {
		s.notifier.Notify(member.Identity, realtime.FrameTypeMatchFailed, room.ID)
	}
}

func coParticipants(members []meeting.Participant) []CoParticipant {
	out := make([]CoParticipant, 0, len(members))
	for _, m := range members {
		out = append(out, CoParticipant{Nickname: m.Nickname, Classification: m.Classification})
	}
	return out
}
