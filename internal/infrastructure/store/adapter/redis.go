package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/store/port"
)

// RedisStore satisfies port.Store using a Redis hash per key: field "v"
// holds the payload, field "ver" the version counter. Keeping both in one
// hash lets the compare-and-swap script stay single-key and therefore atomic.
type RedisStore struct {
	client *redis.Client
}

// casScript implements the conditional write. ARGV[1] is the expected
// version, ARGV[2] the payload, ARGV[3] the ttl in seconds (0 = none).
// Returns the new version, or -1 when the stored version does not match.
var casScript = redis.NewScript(`
local ver = redis.call('HGET', KEYS[1], 'ver')
if (ver == false and ARGV[1] == '0') or (ver ~= false and ver == ARGV[1]) then
  local new = tonumber(ARGV[1]) + 1
  redis.call('HSET', KEYS[1], 'v', ARGV[2], 'ver', new)
  if tonumber(ARGV[3]) > 0 then
    redis.call('EXPIRE', KEYS[1], ARGV[3])
  else
    redis.call('PERSIST', KEYS[1])
  end
  return new
end
return -1
`)

// NewRedisStore wraps an existing go-redis client. The caller owns the
// client lifecycle when sharing it across adapters; Close here only closes
// the underlying client, so share with care.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ensure interface compliance at compile time
var _ port.Store = (*RedisStore)(nil)

func (s *RedisStore) Get(ctx context.Context, key string) (port.Record, error) {
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return port.Record{}, fmt.Errorf("store: get %s: %w", key, err)
	}
	if len(fields) == 0 {
		return port.Record{}, port.ErrNotFound
	}
	rec := port.Record{Key: key, Value: []byte(fields["v"])}
	if _, err := fmt.Sscan(fields["ver"], &rec.Version); err != nil {
		return port.Record{}, fmt.Errorf("store: corrupt version for %s: %w", key, err)
	}
	return rec, nil
}

func (s *RedisStore) PutVersioned(ctx context.Context, key string, value []byte, expect uint64, ttl time.Duration) (uint64, error) {
	ttlSeconds := int64(0)
	if ttl > 0 {
		ttlSeconds = int64(ttl / time.Second)
		if ttlSeconds == 0 {
			ttlSeconds = 1
		}
	}
	res, err := casScript.Run(ctx, s.client, []string{key},
		fmt.Sprintf("%d", expect), string(value), ttlSeconds).Int64()
	if err != nil {
		return 0, fmt.Errorf("store: put %s: %w", key, err)
	}
	if res < 0 {
		return 0, port.ErrConflict
	}
	return uint64(res), nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, prefix string) ([]port.Record, error) {
	var records []port.Record
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("store: scan %s: %w", prefix, err)
		}
		for _, key := range keys {
			rec, err := s.Get(ctx, key)
			if errors.Is(err, port.ErrNotFound) {
				continue // expired between SCAN and HGETALL
			}
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return records, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
