package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	qport "github.com/JEGHTNER/Zooting/internal/infrastructure/queue/port"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/realtime"
	storeadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/store/adapter"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repoadapter "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/adapter"
)

type sweepNotifier struct {
	mu     sync.Mutex
	frames map[string][]string // identity -> frame types
}

func newSweepNotifier() *sweepNotifier {
	return &sweepNotifier{frames: make(map[string][]string)}
}

func (n *sweepNotifier) Notify(identity string, frameType string, _ any) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.frames[identity] = append(n.frames[identity], frameType)
	return true
}

type sweepReleaser struct {
	mu       sync.Mutex
	released []string
}

func (r *sweepReleaser) Unwatch(roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, roomID)
	return nil
}

func seedRoom(t *testing.T, rooms *repoadapter.StoreWaitingRoomRepository, armAt time.Time, members ...string) *meeting.WaitingRoom {
	t.Helper()
	room := meeting.NewWaitingRoom()
	for _, id := range members {
		if err := room.AddMember(meeting.Participant{Identity: id, Nickname: id, Classification: "EARLY_BIRD"}); err != nil {
			t.Fatal(err)
		}
	}
	if !armAt.IsZero() {
		room.ArmAcceptWindow(armAt)
		// Keep the stored record alive past its lapsed handshake so the
		// sweep, not the store expiry, is what reaps it.
		room.ExpirySeconds = meeting.NoExpiry
	}
	if err := rooms.Save(context.Background(), room); err != nil {
		t.Fatal(err)
	}
	return room
}

func TestSweepOnceReapsLapsedRooms(t *testing.T) {
	ctx := context.Background()
	rooms := repoadapter.NewStoreWaitingRoomRepository(storeadapter.NewMemoryStore())
	notifier := newSweepNotifier()
	releaser := &sweepReleaser{}

	now := time.Now()
	lapsed := seedRoom(t, rooms, now.Add(-time.Minute), "a", "b")
	pending := seedRoom(t, rooms, now, "c", "d")
	collecting := seedRoom(t, rooms, time.Time{}, "e")

	if err := SweepOnce(ctx, rooms, notifier, releaser, now); err != nil {
		t.Fatal(err)
	}

	if _, err := rooms.Get(ctx, lapsed.ID); !errors.Is(err, meeting.ErrRoomNotFound) {
		t.Fatalf("lapsed room: err = %v, want ErrRoomNotFound", err)
	}
	if _, err := rooms.Get(ctx, pending.ID); err != nil {
		t.Fatalf("room inside its window must survive: %v", err)
	}
	if _, err := rooms.Get(ctx, collecting.ID); err != nil {
		t.Fatalf("collecting room must survive: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		frames := notifier.frames[id]
		if len(frames) != 1 || frames[0] != realtime.FrameTypeMatchFailed {
			t.Fatalf("frames for %q = %v, want one MATCH_FAILED", id, frames)
		}
	}
	if len(notifier.frames["c"]) != 0 || len(notifier.frames["e"]) != 0 {
		t.Fatal("surviving rooms must not be notified")
	}

	if len(releaser.released) != 1 || releaser.released[0] != lapsed.ID {
		t.Fatalf("released = %v, want [%s]", releaser.released, lapsed.ID)
	}
}

func TestSweepOnceEmptyStore(t *testing.T) {
	rooms := repoadapter.NewStoreWaitingRoomRepository(storeadapter.NewMemoryStore())
	if err := SweepOnce(context.Background(), rooms, newSweepNotifier(), &sweepReleaser{}, time.Now()); err != nil {
		t.Fatal(err)
	}
}

// chainClient records enqueued tasks so the handler's re-chaining is
// observable without a Redis-backed queue.
type chainClient struct {
	mu    sync.Mutex
	tasks []qport.Task
	opts  []qport.EnqueueOption
}

func (c *chainClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, t)
	if len(opts) > 0 {
		c.opts = append(c.opts, opts[0])
	}
	return "task-id", nil
}

func (c *chainClient) Close() error { return nil }

type chainServer struct {
	handlers map[string]qport.Handler
}

func (s *chainServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]qport.Handler)
	}
	s.handlers[taskType] = h
}

func (s *chainServer) Run(context.Context) error  { return nil }
func (s *chainServer) Stop(context.Context) error { return nil }

func TestSweepHandlerReenqueuesItself(t *testing.T) {
	rooms := repoadapter.NewStoreWaitingRoomRepository(storeadapter.NewMemoryStore())
	client := &chainClient{}
	server := &chainServer{}

	RegisterRoomSweepTask(server, client, rooms, newSweepNotifier(), &sweepReleaser{})
	h, ok := server.handlers[RoomSweepTaskType]
	if !ok {
		t.Fatalf("no handler registered for %q", RoomSweepTaskType)
	}

	if err := h(context.Background(), qport.Task{Type: RoomSweepTaskType}); err != nil {
		t.Fatal(err)
	}

	if len(client.tasks) != 1 || client.tasks[0].Type != RoomSweepTaskType {
		t.Fatalf("enqueued = %+v, want one %q task", client.tasks, RoomSweepTaskType)
	}
	if client.opts[0].Queue != "meeting" {
		t.Fatalf("queue = %q, want %q", client.opts[0].Queue, "meeting")
	}
}
