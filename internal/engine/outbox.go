package engine

import (
	"context"
	"log/slog"
)

// outboxMaxAttempts bounds retries per parked write before it is dropped
// with an error log. Keeps a permanently failing remote from growing the
// queue without bound.
const outboxMaxAttempts = 5

type outboxEntry struct {
	op       string
	attempts int
	fn       func(ctx context.Context) error
}

// outbox parks failed remote writes for retry. Without it a failed write
// would silently diverge the remote store from the projection for the rest
// of the session; with it the write is replayed before the next remote
// operation and at session close.
//
// FIFO order is preserved so replayed writes land in their original order.
type outbox struct {
	pending []outboxEntry
	log     *slog.Logger
}

func newOutbox(log *slog.Logger) *outbox {
	return &outbox{log: log}
}

func (o *outbox) park(op string, fn func(ctx context.Context) error) {
	o.pending = append(o.pending, outboxEntry{op: op, fn: fn})
	o.log.Warn("remote write parked for retry", "op", op, "pending", len(o.pending))
}

// flush replays pending writes in order. It stops at the first entry that
// fails again, so later writes cannot overtake an earlier one for the same
// key. Entries that exhaust their attempts are dropped.
func (o *outbox) flush(ctx context.Context) {
	for len(o.pending) > 0 {
		entry := o.pending[0]
		err := entry.fn(ctx)
		if err == nil {
			o.pending = o.pending[1:]
			o.log.Info("parked write replayed", "op", entry.op)
			continue
		}
		entry.attempts++
		if entry.attempts >= outboxMaxAttempts {
			o.pending = o.pending[1:]
			o.log.Error("parked write dropped", "op", entry.op, "attempts", entry.attempts, "error", err)
			continue
		}
		o.pending[0] = entry
		return
	}
}

func (o *outbox) size() int { return len(o.pending) }
