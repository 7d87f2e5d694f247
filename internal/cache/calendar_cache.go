package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"github.com/rs/zerolog/log"
)

const versionKey = "calendar:version"

// CalendarCache is a redis read cache for projected calendar responses. Keys
// embed a namespace version; every write to tasks, overlays or leaves bumps
// the version, so stale projections become unreachable and age out via TTL
// instead of being enumerated and deleted.
//
// The cache is best-effort: redis failures are logged and treated as misses.
// A nil client disables caching entirely.
type CalendarCache struct {
	client rueidis.Client
	ttl    time.Duration
}

func NewCalendarCache(client rueidis.Client, ttl time.Duration) *CalendarCache {
	return &CalendarCache{client: client, ttl: ttl}
}

// Key builds the versioned cache key for one viewer and range.
func (c *CalendarCache) Key(ctx context.Context, viewerID, from, to string) string {
	version := "0"
	if c.client != nil {
		res := c.client.Do(ctx, c.client.B().Get().Key(versionKey).Build())
		if v, err := res.ToString(); err == nil {
			version = v
		} else if !rueidis.IsRedisNil(err) {
			log.Warn().Err(err).Msg("calendar cache version lookup failed")
		}
	}
	return fmt.Sprintf("calendar:v%s:%s:%s:%s", version, viewerID, from, to)
}

func (c *CalendarCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	res := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	payload, err := res.AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			log.Warn().Err(err).Str("key", key).Msg("calendar cache read failed")
		}
		return nil, false
	}
	return payload, true
}

func (c *CalendarCache) Set(ctx context.Context, key string, payload []byte) {
	if c.client == nil {
		return
	}
	cmd := c.client.B().Set().Key(key).Value(rueidis.BinaryString(payload)).
		Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("calendar cache write failed")
	}
}

// Invalidate bumps the namespace version after any calendar-affecting write.
func (c *CalendarCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Do(ctx, c.client.B().Incr().Key(versionKey).Build()).Error(); err != nil {
		log.Warn().Err(err).Msg("calendar cache invalidation failed")
	}
}
