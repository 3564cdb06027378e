package meeting

import "time"

// Selection records one "I want to continue with them" choice made after a
// video session ends. Selections live in a short-lived per-session list,
// decoupled from the waiting-room state machine.
type Selection struct {
	Selector  string    `json:"selector"`
	Selected  string    `json:"selected"`
	CreatedAt time.Time `json:"createdAt"`
}

// SelectionTTL is how long a session's selection list survives without
// reads or writes. Both push and read re-arm it.
const SelectionTTL = 180 * time.Second
