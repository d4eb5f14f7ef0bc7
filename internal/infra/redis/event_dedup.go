package redis

import (
	"context"
	"time"

	"creem-checkout-backend/internal/domain/ports/repository"
)

const dedupKeyPrefix = "webhook:event:"

var _ repository.DeliveryDedup = (*EventDedup)(nil)

// EventDedup records webhook delivery ids in Redis with a TTL so redelivered
// events inside the window are acknowledged without a second dispatch.
type EventDedup struct {
	client RedisClient
	ttl    time.Duration
}

func NewEventDedup(client RedisClient, ttl time.Duration) *EventDedup {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventDedup{client: client, ttl: ttl}
}

// MarkSeen records id and reports whether it was already present. SETNX makes
// the record-and-check a single round trip, so two concurrent deliveries of
// the same event race to exactly one first-seen result.
func (d *EventDedup) MarkSeen(ctx context.Context, id string) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupKeyPrefix+id, 1, d.ttl)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
