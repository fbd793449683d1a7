package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func runLockerContract(t *testing.T, l Locker) {
	t.Run("serializes_same_key", func(t *testing.T) {
		ctx := context.Background()
		var inside, maxInside int32
		var counter int
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := l.WithLock(ctx, "ride:1", func(context.Context) error {
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					v := counter
					time.Sleep(time.Millisecond)
					counter = v + 1
					atomic.AddInt32(&inside, -1)
					return nil
				})
				if err != nil {
					t.Errorf("with lock: %v", err)
				}
			}()
		}
		wg.Wait()
		if maxInside != 1 {
			t.Fatalf("expected at most one holder, saw %d", maxInside)
		}
		if counter != 10 {
			t.Fatalf("counter = %d, want 10", counter)
		}
	})

	t.Run("propagates_fn_error", func(t *testing.T) {
		want := errors.New("boom")
		got := l.WithLock(context.Background(), "ride:2", func(context.Context) error { return want })
		if !errors.Is(got, want) {
			t.Fatalf("expected fn error, got %v", got)
		}
		if err := l.WithLock(context.Background(), "ride:2", func(context.Context) error { return nil }); err != nil {
			t.Fatalf("lock not released after error: %v", err)
		}
	})

	t.Run("different_keys_do_not_block", func(t *testing.T) {
		ctx := context.Background()
		held := make(chan struct{})
		done := make(chan struct{})
		go func() {
			_ = l.WithLock(ctx, "ride:a", func(context.Context) error {
				close(held)
				<-done
				return nil
			})
		}()
		<-held
		if err := l.WithLock(ctx, "ride:b", func(context.Context) error { return nil }); err != nil {
			t.Fatalf("other key blocked: %v", err)
		}
		close(done)
	})
}

func TestMemoryLocker(t *testing.T) {
	runLockerContract(t, NewMemoryLocker())
}

func TestMemoryLockerContextCancel(t *testing.T) {
	l := NewMemoryLocker()
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.WithLock(ctx, "k", func(context.Context) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestMemoryLockerCleansUpKeys(t *testing.T) {
	l := NewMemoryLocker()
	_ = l.WithLock(context.Background(), "k", func(context.Context) error { return nil })
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Fatalf("expected no retained keys, got %d", len(l.locks))
	}
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("RIDE_TEST_REDIS")
	if addr == "" {
		t.Skip("RIDE_TEST_REDIS not set; skipping Redis-backed lock tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	runLockerContract(t, NewRedisLocker(client, 2*time.Second))

	t.Run("fn_context_ends_with_lease", func(t *testing.T) {
		ttl := 100 * time.Millisecond
		l := NewRedisLocker(client, ttl)
		start := time.Now()
		err := l.WithLock(context.Background(), "ride:lease", func(ctx context.Context) error {
			deadline, ok := ctx.Deadline()
			if !ok || deadline.Sub(start) > ttl+50*time.Millisecond {
				t.Errorf("fn context deadline = %v (set %v), want within lease", deadline, ok)
			}
			<-ctx.Done()
			return ctx.Err()
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected overrunning fn to see deadline exceeded, got %v", err)
		}
	})
}
