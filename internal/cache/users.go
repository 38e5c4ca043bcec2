// Package cache provides a redis read-through cache for user summaries.
// Ticket and comment reads resolve created_by/assigned_to/author ids on
// every request; the cache keeps those lookups off the users table.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helpdeskpro/helpdesk/internal/domain"
)

const (
	userKeyPrefix  = "helpdesk:user:"
	userSummaryTTL = 10 * time.Minute
)

// UserSummaries caches populated user references. All errors are treated as
// cache misses so an unreachable redis never fails a read path.
type UserSummaries struct {
	client *redis.Client
}

// NewUserSummaries builds the cache. A nil client disables caching.
func NewUserSummaries(client *redis.Client) *UserSummaries {
	return &UserSummaries{client: client}
}

// Get returns the cached summary for the user id, if present.
func (c *UserSummaries) Get(ctx context.Context, id string) (*domain.UserSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var summary domain.UserSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores the summary with a short TTL. User records are immutable in
// all fields the summary carries except name, so staleness is benign.
func (c *UserSummaries) Set(ctx context.Context, summary domain.UserSummary) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, userKeyPrefix+summary.ID, raw, userSummaryTTL).Err()
}
