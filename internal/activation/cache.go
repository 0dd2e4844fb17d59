// Package activation memoizes whether AI chat is enabled for a guild channel.
package activation

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Dmetrikx/shiva/internal/store"
)

// Defaults for the activation cache
const (
	DefaultTTL  = 5 * time.Minute
	DefaultSize = 10000
)

// Lookup answers whether a channel is opted into AI chat. A nil channel with
// a nil error means it is not.
type Lookup interface {
	FindActiveChannel(ctx context.Context, guildID, channelID string) (*store.Channel, error)
}

// Cache stores lookup results for a fixed TTL counted from insertion.
// Both enabled and disabled answers are cached; lookup failures are not.
type Cache struct {
	lookup  Lookup
	entries *expirable.LRU[string, bool]
	logger  *slog.Logger
}

// NewCache creates an activation cache in front of lookup
func NewCache(lookup Lookup, ttl time.Duration, size int, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if size <= 0 {
		size = DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		lookup:  lookup,
		entries: expirable.NewLRU[string, bool](size, nil, ttl),
		logger:  logger,
	}
}

func key(guildID, channelID string) string {
	return guildID + ":" + channelID
}

// IsActive reports whether AI chat is enabled for the channel. Lookup errors
// are logged and treated as inactive.
func (c *Cache) IsActive(ctx context.Context, channelID, guildID string) bool {
	k := key(guildID, channelID)
	if active, ok := c.entries.Get(k); ok {
		return active
	}

	ch, err := c.lookup.FindActiveChannel(ctx, guildID, channelID)
	if err != nil {
		c.logger.ErrorContext(ctx, "activation lookup failed",
			"guild_id", guildID,
			"channel_id", channelID,
			"error", err)
		return false
	}

	active := ch != nil
	c.entries.Add(k, active)
	return active
}

// Forget drops the cached answer for a channel so the next check hits the lookup
func (c *Cache) Forget(channelID, guildID string) {
	c.entries.Remove(key(guildID, channelID))
}
