package repository

import "context"

// DeliveryDedup remembers webhook delivery ids for a bounded window so a
// redelivered event can be acknowledged without dispatching twice. Best
// effort only: handlers still have to tolerate repeats.
type DeliveryDedup interface {
	// MarkSeen records id and reports whether it had been recorded already.
	MarkSeen(ctx context.Context, id string) (bool, error)
}
