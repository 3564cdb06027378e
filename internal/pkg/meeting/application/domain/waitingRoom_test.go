package meeting

import (
	"errors"
	"testing"
	"time"
)

func member(identity, classification string) Participant {
	return Participant{
		Identity:       identity,
		Nickname:       "nick-" + identity,
		Classification: classification,
		Gender:         "unspecified",
	}
}

func TestNewWaitingRoomDefaults(t *testing.T) {
	room := NewWaitingRoom()
	if room.ID == "" {
		t.Fatal("expected a generated room id")
	}
	if room.State != StateCollecting {
		t.Fatalf("state = %q, want %q", room.State, StateCollecting)
	}
	if room.ExpirySeconds != NoExpiry {
		t.Fatalf("expirySeconds = %d, want %d", room.ExpirySeconds, NoExpiry)
	}
	if room.MemberCount() != 0 {
		t.Fatalf("memberCount = %d, want 0", room.MemberCount())
	}
	if room.DeadlineAt != nil {
		t.Fatal("new room must not carry a deadline")
	}
}

func TestAddMember(t *testing.T) {
	room := NewWaitingRoom()
	for i, p := range []Participant{
		member("a", "EARLY_BIRD"),
		member("b", "NIGHT_OWL"),
		member("c", "EARLY_BIRD"),
		member("d", "NIGHT_OWL"),
	} {
		if err := room.AddMember(p); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if !room.IsFull() {
		t.Fatal("room with capacity members must be full")
	}

	if err := room.AddMember(member("e", "EARLY_BIRD")); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("add beyond capacity: err = %v, want ErrRoomFull", err)
	}

	// Re-adding an existing member is idempotent even at capacity.
	if err := room.AddMember(member("a", "EARLY_BIRD")); err != nil {
		t.Fatalf("re-add existing member: %v", err)
	}
	if room.MemberCount() != RoomCapacity {
		t.Fatalf("memberCount = %d, want %d", room.MemberCount(), RoomCapacity)
	}
}

func TestAddMemberClosedRoom(t *testing.T) {
	room := NewWaitingRoom()
	if err := room.AddMember(member("a", "EARLY_BIRD")); err != nil {
		t.Fatal(err)
	}
	room.ArmAcceptWindow(time.Now())

	if err := room.AddMember(member("b", "NIGHT_OWL")); !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("add to non-collecting room: err = %v, want ErrRoomClosed", err)
	}
	// Existing members stay re-addable without error.
	if err := room.AddMember(member("a", "EARLY_BIRD")); err != nil {
		t.Fatalf("re-add existing member after close: %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	room := NewWaitingRoom()
	_ = room.AddMember(member("a", "EARLY_BIRD"))
	_ = room.AddMember(member("b", "NIGHT_OWL"))

	room.RemoveMember("a")
	if room.HasMember("a") {
		t.Fatal("removed member still present")
	}
	if room.MemberCount() != 1 {
		t.Fatalf("memberCount = %d, want 1", room.MemberCount())
	}

	// Removing an absent identity is a no-op.
	room.RemoveMember("zz")
	if room.MemberCount() != 1 {
		t.Fatalf("memberCount after absent removal = %d, want 1", room.MemberCount())
	}
}

func TestArmAcceptWindow(t *testing.T) {
	room := NewWaitingRoom()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	room.ArmAcceptWindow(now)

	if room.State != StateAwaitingAcceptance {
		t.Fatalf("state = %q, want %q", room.State, StateAwaitingAcceptance)
	}
	if room.ExpirySeconds != AcceptWindowSeconds {
		t.Fatalf("expirySeconds = %d, want %d", room.ExpirySeconds, AcceptWindowSeconds)
	}
	want := now.Add(time.Duration(AcceptWindowSeconds) * time.Second)
	if room.DeadlineAt == nil || !room.DeadlineAt.Equal(want) {
		t.Fatalf("deadlineAt = %v, want %v", room.DeadlineAt, want)
	}

	if room.AcceptWindowLapsed(now) {
		t.Fatal("window must not lapse at arm time")
	}
	if room.AcceptWindowLapsed(want) {
		t.Fatal("window must not lapse exactly at the deadline")
	}
	if !room.AcceptWindowLapsed(want.Add(time.Millisecond)) {
		t.Fatal("window must lapse after the deadline")
	}
}

func TestAcceptWindowLapsedUnharmedRoom(t *testing.T) {
	room := NewWaitingRoom()
	if room.AcceptWindowLapsed(time.Now().Add(time.Hour)) {
		t.Fatal("collecting room without deadline must never lapse")
	}
}

func TestOppositeParticipants(t *testing.T) {
	room := NewWaitingRoom()
	_ = room.AddMember(member("a", "EARLY_BIRD"))
	_ = room.AddMember(member("b", "NIGHT_OWL"))
	_ = room.AddMember(member("c", "EARLY_BIRD"))
	_ = room.AddMember(member("d", "NIGHT_OWL"))

	got := room.OppositeParticipants("a")
	if len(got) != 2 {
		t.Fatalf("opposite count = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.Classification != "NIGHT_OWL" {
			t.Fatalf("unexpected classification %q for %q", p.Classification, p.Identity)
		}
	}

	got = room.OppositeParticipants("b")
	if len(got) != 2 {
		t.Fatalf("opposite count = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.Classification != "EARLY_BIRD" {
			t.Fatalf("unexpected classification %q for %q", p.Classification, p.Identity)
		}
	}
}
