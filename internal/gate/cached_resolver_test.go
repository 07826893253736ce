package gate

import (
	"context"
	"testing"
	"time"
)

// countingResolver tracks how many times the inner resolver is hit.
type countingResolver struct {
	calls   int
	profile Profile
}

func (r *countingResolver) Resolve(_ context.Context, _ uint) (Profile, error) {
	r.calls++
	return r.profile, nil
}

func TestCachedResolver_CachesWithinTTL(t *testing.T) {
	inner := &countingResolver{profile: NewStaticProfile("rep", "order:view")}
	cached := NewCachedResolver[uint](inner, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cached.Resolve(ctx, 1); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner resolver called %d times, want 1", inner.calls)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := &countingResolver{profile: NewStaticProfile("rep", "order:view")}
	cached := NewCachedResolver[uint](inner, time.Minute)
	ctx := context.Background()

	cached.Resolve(ctx, 1)
	cached.Invalidate(1)
	cached.Resolve(ctx, 1)
	if inner.calls != 2 {
		t.Errorf("inner resolver called %d times after invalidation, want 2", inner.calls)
	}
}

func TestCachedResolver_ExpiredEntryRefetches(t *testing.T) {
	inner := &countingResolver{profile: NewStaticProfile("rep", "order:view")}
	cached := NewCachedResolver[uint](inner, -time.Second)
	ctx := context.Background()

	cached.Resolve(ctx, 1)
	cached.Resolve(ctx, 1)
	if inner.calls != 2 {
		t.Errorf("inner resolver called %d times with expired ttl, want 2", inner.calls)
	}
}
