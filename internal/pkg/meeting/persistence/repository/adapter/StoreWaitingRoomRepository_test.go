package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	storeadapter "github.com/JEGHTNER/Zooting/internal/infrastructure/store/adapter"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
)

func newRepo() *StoreWaitingRoomRepository {
	return NewStoreWaitingRoomRepository(storeadapter.NewMemoryStore())
}

func TestWaitingRoomRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	room := meeting.NewWaitingRoom()
	if err := room.AddMember(meeting.Participant{Identity: "a", Nickname: "Ada", Classification: "EARLY_BIRD", Gender: "f"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, room); err != nil {
		t.Fatal(err)
	}
	if room.Version != 1 {
		t.Fatalf("version after first save = %d, want 1", room.Version)
	}

	got, err := repo.Get(ctx, room.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != room.ID || got.State != meeting.StateCollecting || got.MemberCount() != 1 {
		t.Fatalf("loaded room = %+v", got)
	}
	if got.Members[0].Nickname != "Ada" || got.Members[0].Classification != "EARLY_BIRD" {
		t.Fatalf("member round-trip = %+v", got.Members[0])
	}
	if got.Version != 1 {
		t.Fatalf("loaded version = %d, want 1", got.Version)
	}
}

func TestWaitingRoomGetMissing(t *testing.T) {
	repo := newRepo()
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, meeting.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestWaitingRoomConditionalWrite(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	room := meeting.NewWaitingRoom()
	if err := repo.Save(ctx, room); err != nil {
		t.Fatal(err)
	}

	// Two readers load the same version; the second writer loses.
	first, err := repo.Get(ctx, room.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Get(ctx, room.ID)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, meeting.ErrRaceLost) {
		t.Fatalf("stale save: err = %v, want ErrRaceLost", err)
	}

	// Creating a second record under the same id must also lose.
	dup := meeting.NewWaitingRoom()
	dup.ID = room.ID
	if err := repo.Save(ctx, dup); !errors.Is(err, meeting.ErrRaceLost) {
		t.Fatalf("duplicate create: err = %v, want ErrRaceLost", err)
	}
}

func TestWaitingRoomExpiry(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	room := meeting.NewWaitingRoom()
	room.ArmAcceptWindow(time.Now().Add(-time.Hour))
	room.ExpirySeconds = 1 // shortest representable countdown
	if err := repo.Save(ctx, room); err != nil {
		t.Fatal(err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, err := repo.Get(ctx, room.ID); !errors.Is(err, meeting.ErrRoomNotFound) {
		t.Fatalf("expired room: err = %v, want ErrRoomNotFound", err)
	}
}

func TestWaitingRoomListAll(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		room := meeting.NewWaitingRoom()
		if err := repo.Save(ctx, room); err != nil {
			t.Fatal(err)
		}
		ids[room.ID] = true
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d rooms, want 3", len(all))
	}
	for _, room := range all {
		if !ids[room.ID] {
			t.Fatalf("unexpected room %q in listing", room.ID)
		}
		if room.Version == 0 {
			t.Fatalf("room %q listed without its version", room.ID)
		}
	}
}

func TestWaitingRoomDelete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()

	room := meeting.NewWaitingRoom()
	if err := repo.Save(ctx, room); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, room.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Get(ctx, room.ID); !errors.Is(err, meeting.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	// Deleting an absent room is not an error.
	if err := repo.Delete(ctx, room.ID); err != nil {
		t.Fatal(err)
	}
}
