package meeting

import (
	"time"

	"github.com/google/uuid"
)

// RoomCapacity is the fixed size of a waiting room. Reaching it triggers the
// handshake; a full round of acceptances triggers session issuance.
const RoomCapacity = 4

// NoExpiry marks a room that lives until explicitly deleted (the collecting
// phase). A positive ExpirySeconds arms a countdown on the stored record.
const NoExpiry int64 = -1

// AcceptWindowSeconds is how long a full room waits for everyone to accept.
const AcceptWindowSeconds int64 = 10

// RoomState tags where a room is in its lifecycle. Transitions only ever
// move forward: COLLECTING -> AWAITING_ACCEPTANCE -> ISSUING -> closed
// (closed rooms are deleted, never stored).
type RoomState string

const (
	StateCollecting         RoomState = "COLLECTING"
	StateAwaitingAcceptance RoomState = "AWAITING_ACCEPTANCE"
	StateIssuing            RoomState = "ISSUING"
)

// WaitingRoom is one matchmaking group. The record is read and rewritten
// whole under its id; Version backs the compare-and-swap write that
// replaces process-local locking around read-modify-write cycles.
type WaitingRoom struct {
	ID            string        `json:"id"`
	State         RoomState     `json:"state"`
	Members       []Participant `json:"members"`
	AcceptCount   int           `json:"acceptCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	ExpirySeconds int64         `json:"expirySeconds"`
	DeadlineAt    *time.Time    `json:"deadlineAt,omitempty"`

	// Version is managed by the repository, not serialized with the record.
	Version uint64 `json:"-"`
}

// NewWaitingRoom creates an empty collecting room with a fresh id and no
// expiry.
func NewWaitingRoom() *WaitingRoom {
	return &WaitingRoom{
		ID:            uuid.NewString(),
		State:         StateCollecting,
		Members:       []Participant{},
		AcceptCount:   0,
		CreatedAt:     time.Now().UTC(),
		ExpirySeconds: NoExpiry,
	}
}

// HasMember reports whether the identity is already in the room.
func (r *WaitingRoom) HasMember(identity string) bool {
	for _, m := range r.Members {
		if m.Identity == identity {
			return true
		}
	}
	return false
}

// MemberCount returns the current number of members.
func (r *WaitingRoom) MemberCount() int {
	return len(r.Members)
}

// IsFull reports whether the room has reached capacity. Full rooms are
// immutable with respect to membership.
func (r *WaitingRoom) IsFull() bool {
	return len(r.Members) >= RoomCapacity
}

// AddMember inserts the participant. Adding an identity that is already a
// member is a no-op; adding to a full or non-collecting room is rejected.
func (r *WaitingRoom) AddMember(p Participant) error {
	if r.HasMember(p.Identity) {
		return nil
	}
	if r.State != StateCollecting {
		return ErrRoomClosed
	}
	if r.IsFull() {
		return ErrRoomFull
	}
	r.Members = append(r.Members, p)
	return nil
}

// RemoveMember drops the identity from the member set. Removing an absent
// identity is a no-op.
func (r *WaitingRoom) RemoveMember(identity string) {
	for i, m := range r.Members {
		if m.Identity == identity {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return
		}
	}
}

// ArmAcceptWindow moves a full collecting room into the handshake phase and
// starts the accept countdown.
func (r *WaitingRoom) ArmAcceptWindow(now time.Time) {
	deadline := now.UTC().Add(time.Duration(AcceptWindowSeconds) * time.Second)
	r.State = StateAwaitingAcceptance
	r.ExpirySeconds = AcceptWindowSeconds
	r.DeadlineAt = &deadline
}

// AcceptWindowLapsed reports whether the handshake deadline has passed.
// Rooms without an armed deadline never lapse.
func (r *WaitingRoom) AcceptWindowLapsed(now time.Time) bool {
	return r.State == StateAwaitingAcceptance && r.DeadlineAt != nil && now.After(*r.DeadlineAt)
}

// OppositeParticipants returns the room-mates whose classification tag
// differs from the given participant's tag. The requesting participant is
// excluded by construction since their own tag matches itself.
func (r *WaitingRoom) OppositeParticipants(identity string) []Participant {
	var own string
	for _, m := range r.Members {
		if m.Identity == identity {
			own = m.Classification
			break
		}
	}
	var opposite []Participant
	for _, m := range r.Members {
		if m.Classification != own {
			opposite = append(opposite, m)
		}
	}
	return opposite
}
