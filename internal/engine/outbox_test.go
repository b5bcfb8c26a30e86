package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOutboxReplaysInOrder(t *testing.T) {
	o := newOutbox(discardLogger())
	ctx := context.Background()

	var replayed []string
	ok := func(name string) func(context.Context) error {
		return func(context.Context) error {
			replayed = append(replayed, name)
			return nil
		}
	}
	o.park("first", ok("first"))
	o.park("second", ok("second"))
	o.park("third", ok("third"))

	o.flush(ctx)
	if o.size() != 0 {
		t.Fatalf("pending=%d after flush, want 0", o.size())
	}
	if len(replayed) != 3 || replayed[0] != "first" || replayed[2] != "third" {
		t.Fatalf("replay order=%v", replayed)
	}
}

func TestOutboxStopsAtFirstFailure(t *testing.T) {
	o := newOutbox(discardLogger())
	ctx := context.Background()

	var laterRan bool
	o.park("stuck", func(context.Context) error { return errors.New("still down") })
	o.park("later", func(context.Context) error { laterRan = true; return nil })

	o.flush(ctx)
	if laterRan {
		t.Fatalf("later write overtook a failing earlier one")
	}
	if o.size() != 2 {
		t.Fatalf("pending=%d, want 2", o.size())
	}
}

func TestOutboxDropsAfterMaxAttempts(t *testing.T) {
	o := newOutbox(discardLogger())
	ctx := context.Background()

	attempts := 0
	o.park("doomed", func(context.Context) error {
		attempts++
		return errors.New("never recovers")
	})

	for i := 0; i < outboxMaxAttempts+2; i++ {
		o.flush(ctx)
	}
	if o.size() != 0 {
		t.Fatalf("doomed write still pending after %d attempts", attempts)
	}
	if attempts != outboxMaxAttempts {
		t.Fatalf("attempts=%d, want %d", attempts, outboxMaxAttempts)
	}
}

func TestOutboxRecoversMidQueue(t *testing.T) {
	o := newOutbox(discardLogger())
	ctx := context.Background()

	calls := 0
	var replayed []string
	o.park("flaky", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		replayed = append(replayed, "flaky")
		return nil
	})
	o.park("behind", func(context.Context) error {
		replayed = append(replayed, "behind")
		return nil
	})

	o.flush(ctx) // flaky fails once, behind must wait
	o.flush(ctx) // flaky succeeds, behind drains after it
	if o.size() != 0 {
		t.Fatalf("pending=%d, want 0", o.size())
	}
	if len(replayed) != 2 || replayed[0] != "flaky" || replayed[1] != "behind" {
		t.Fatalf("replay order=%v", replayed)
	}
}
