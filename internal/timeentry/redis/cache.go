package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/frahmantamala/timekeeping/internal/timeentry"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "timekeeping:latest"

// LatestCache keeps each employee's most recent entry in Redis.
type LatestCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLatestCache(client *redis.Client, ttl time.Duration) *LatestCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LatestCache{client: client, ttl: ttl}
}

type cachedEntry struct {
	ID          int64     `json:"id"`
	EmployeeID  int64     `json:"employee_id"`
	PunchedAt   time.Time `json:"punched_at"`
	Type        string    `json:"type"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func Key(employeeID int64) string {
	return fmt.Sprintf("%s:%d", keyPrefix, employeeID)
}

// VersionKey holds the counter Invalidate bumps. It carries no TTL.
func VersionKey(employeeID int64) string {
	return Key(employeeID) + ":version"
}

// setIfCurrent writes KEYS[1] only while KEYS[2] still holds ARGV[1]. A
// missing counter reads as version 0.
var setIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

func (c *LatestCache) Get(ctx context.Context, employeeID int64) (*timeentry.TimeEntry, int64, bool, error) {
	values, err := c.client.MGet(ctx, Key(employeeID), VersionKey(employeeID)).Result()
	if err != nil {
		return nil, 0, false, err
	}

	version, err := parseVersion(values[1])
	if err != nil {
		return nil, 0, false, err
	}

	raw, ok := values[0].(string)
	if !ok {
		return nil, version, false, nil
	}

	var cached cachedEntry
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return &timeentry.TimeEntry{
		ID:          cached.ID,
		EmployeeID:  cached.EmployeeID,
		PunchedAt:   cached.PunchedAt,
		Type:        cached.Type,
		Description: cached.Description,
		Location:    cached.Location,
		CreatedAt:   cached.CreatedAt,
	}, version, true, nil
}

// Set stores entry unless the employee was invalidated after version was read.
func (c *LatestCache) Set(ctx context.Context, employeeID int64, version int64, entry *timeentry.TimeEntry) error {
	raw, err := json.Marshal(cachedEntry{
		ID:          entry.ID,
		EmployeeID:  entry.EmployeeID,
		PunchedAt:   entry.PunchedAt,
		Type:        entry.Type,
		Description: entry.Description,
		Location:    entry.Location,
		CreatedAt:   entry.CreatedAt,
	})
	if err != nil {
		return err
	}
	keys := []string{Key(employeeID), VersionKey(employeeID)}
	return setIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds()).Err()
}

// Invalidate bumps the version and drops the cached entry in one transaction.
func (c *LatestCache) Invalidate(ctx context.Context, employeeID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(employeeID))
		pipe.Del(ctx, Key(employeeID))
		return nil
	})
	return err
}

func parseVersion(value interface{}) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case string:
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("decode cache version: %w", err)
		}
		return version, nil
	default:
		return 0, fmt.Errorf("unexpected cache version %T", value)
	}
}

// NewClient connects to Redis and returns nil when the server does not
// answer a ping, so callers can run without the cache.
func NewClient(ctx context.Context, addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
