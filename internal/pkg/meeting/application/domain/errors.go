package meeting

import "errors"

// Domain-level errors for the waiting-room lifecycle
var (
	ErrRoomNotFound = errors.New("meeting: waiting room not found")
	ErrRoomFull     = errors.New("meeting: waiting room is already at capacity")
	ErrRaceLost     = errors.New("meeting: concurrent update lost the room write race")
	ErrRoomClosed   = errors.New("meeting: waiting room is no longer collecting members")
)
