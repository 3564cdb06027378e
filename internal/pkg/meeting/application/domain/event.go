package meeting

import (
	"fmt"
	"strconv"
	"strings"
)

// EventType names the two notifications a room's topic carries.
type EventType string

const (
	EventRegister EventType = "REGISTER"
	EventAccept   EventType = "ACCEPT"
)

// TopicPrefix scopes room channels on the bus; the room id follows it.
const TopicPrefix = "hash:"

// Topic returns the bus channel name for a room.
func Topic(roomID string) string {
	return TopicPrefix + roomID
}

// RoomIDFromTopic strips the channel prefix back off. Topics without the
// prefix are returned unchanged.
func RoomIDFromTopic(topic string) string {
	return strings.TrimPrefix(topic, TopicPrefix)
}

// RoomEvent is the two-field message published on a room's topic: the event
// type plus the member or accept count after the mutation.
type RoomEvent struct {
	Type  EventType
	Count int
}

// Encode renders the wire form, e.g. "REGISTER 3".
func (e RoomEvent) Encode() string {
	return fmt.Sprintf("%s %d", e.Type, e.Count)
}

// ParseRoomEvent decodes the wire form. Surrounding quote characters are
// stripped first; some serializers quote plain strings on the channel.
func ParseRoomEvent(payload string) (RoomEvent, error) {
	cleaned := strings.ReplaceAll(payload, `"`, "")
	parts := strings.SplitN(strings.TrimSpace(cleaned), " ", 2)
	if len(parts) != 2 {
		return RoomEvent{}, fmt.Errorf("meeting: malformed room event %q", payload)
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil {
		return RoomEvent{}, fmt.Errorf("meeting: malformed room event count %q: %w", payload, err)
	}
	switch EventType(parts[0]) {
	case EventRegister, EventAccept:
		return RoomEvent{Type: EventType(parts[0]), Count: count}, nil
	default:
		return RoomEvent{}, fmt.Errorf("meeting: unknown room event type %q", parts[0])
	}
}
