package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// selectionKeyPrefix namespaces per-session selection lists in Redis.
const selectionKeyPrefix = "meeting:select:"

// RedisSelectionRepository keeps each session's selections in a Redis list.
// Every push and every read re-arms the 180 second expiry, so the list
// survives exactly as long as the post-call flow is active.
type RedisSelectionRepository struct {
	client *redis.Client
}

func NewRedisSelectionRepository(client *redis.Client) *RedisSelectionRepository {
	return &RedisSelectionRepository{client: client}
}

// Ensure interface compliance at compile time
var _ repository.SelectionRepository = (*RedisSelectionRepository)(nil)

func (r *RedisSelectionRepository) Push(ctx context.Context, sessionID string, s meeting.Selection) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("selection %s: encode: %w", sessionID, err)
	}
	key := selectionKeyPrefix + sessionID
	if err := r.client.RPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("selection %s: push: %w", sessionID, err)
	}
	if err := r.client.Expire(ctx, key, meeting.SelectionTTL).Err(); err != nil {
		return fmt.Errorf("selection %s: expire: %w", sessionID, err)
	}
	return nil
}

func (r *RedisSelectionRepository) List(ctx context.Context, sessionID string) ([]meeting.Selection, error) {
	key := selectionKeyPrefix + sessionID
	rows, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("selection %s: range: %w", sessionID, err)
	}
	if len(rows) == 0 {
		return []meeting.Selection{}, nil
	}

	selections := make([]meeting.Selection, 0, len(rows))
	for _, row := range rows {
		var s meeting.Selection
		if err := json.Unmarshal([]byte(row), &s); err != nil {
			return nil, fmt.Errorf("selection %s: decode: %w", sessionID, err)
		}
		selections = append(selections, s)
	}

	// Reading keeps the list alive for the rest of the post-call flow.
	if err := r.client.Expire(ctx, key, meeting.SelectionTTL).Err(); err != nil {
		return nil, fmt.Errorf("selection %s: expire: %w", sessionID, err)
	}
	return selections, nil
}
