package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ridehail/internal/types"
)

type testDoc struct {
	ID        types.ID  `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Available bool      `json:"available"`
	Count     int64     `json:"count"`
	At        time.Time `json:"at"`
}

// runContract exercises the Store behaviour every backend must provide.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("create_and_find_one", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		id, err := s.Create(ctx, "things", testDoc{Name: "a", Kind: "auto", Available: true, At: at})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		var got testDoc
		if err := s.FindOne(ctx, "things", id, &got); err != nil {
			t.Fatalf("find one: %v", err)
		}
		if got.ID != id || got.Name != "a" || !got.Available || !got.At.Equal(at) {
			t.Fatalf("unexpected document: %+v", got)
		}
	})

	t.Run("ping_and_collections", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if err := s.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
		names, err := s.Collections(ctx)
		if err != nil {
			t.Fatalf("collections: %v", err)
		}
		if len(names) != 0 {
			t.Fatalf("expected no collections, got %v", names)
		}
		for _, c := range []string{"things", "others", "things"} {
			if _, err := s.Create(ctx, c, testDoc{Name: "a"}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		names, err = s.Collections(ctx)
		if err != nil {
			t.Fatalf("collections: %v", err)
		}
		if len(names) != 2 || names[0] != "others" || names[1] != "things" {
			t.Fatalf("collections = %v, want [others things]", names)
		}
	})

	t.Run("find_one_missing", func(t *testing.T) {
		s := newStore(t)
		var got testDoc
		err := s.FindOne(context.Background(), "things", "missing", &got)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("find_filters_in_insertion_order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for i, kind := range []string{"auto", "taxi", "auto", "auto"} {
			if _, err := s.Create(ctx, "things", testDoc{Name: fmt.Sprintf("d%d", i), Kind: kind, Available: i != 2}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		var got []testDoc
		if err := s.Find(ctx, "things", Filter{"kind": "auto", "available": true}, 0, &got); err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(got) != 2 || got[0].Name != "d0" || got[1].Name != "d3" {
			t.Fatalf("unexpected result: %+v", got)
		}

		var limited []testDoc
		if err := s.Find(ctx, "things", nil, 3, &limited); err != nil {
			t.Fatalf("find limited: %v", err)
		}
		if len(limited) != 3 || limited[0].Name != "d0" || limited[2].Name != "d2" {
			t.Fatalf("unexpected limited result: %+v", limited)
		}

		n, err := s.Count(ctx, "things", Filter{"kind": "auto"})
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 3 {
			t.Fatalf("count = %d, want 3", n)
		}
	})

	t.Run("find_empty_collection", func(t *testing.T) {
		s := newStore(t)
		var got []testDoc
		if err := s.Find(context.Background(), "nothing", nil, 10, &got); err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty, got %+v", got)
		}
	})

	t.Run("update_fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id, _ := s.Create(ctx, "things", testDoc{Name: "a", Available: true})
		if err := s.UpdateFields(ctx, "things", id, Fields{"available": false, "name": "b"}); err != nil {
			t.Fatalf("update: %v", err)
		}
		var got testDoc
		_ = s.FindOne(ctx, "things", id, &got)
		if got.Available || got.Name != "b" {
			t.Fatalf("update not applied: %+v", got)
		}
		if err := s.UpdateFields(ctx, "things", "missing", Fields{"name": "x"}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_if", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id, _ := s.Create(ctx, "things", testDoc{Name: "a", Available: true})
		ok, err := s.UpdateIf(ctx, "things", id, Filter{"available": true}, Fields{"available": false})
		if err != nil || !ok {
			t.Fatalf("first claim: ok=%v err=%v", ok, err)
		}
		ok, err = s.UpdateIf(ctx, "things", id, Filter{"available": true}, Fields{"available": false})
		if err != nil || ok {
			t.Fatalf("second claim must fail without error: ok=%v err=%v", ok, err)
		}
		if _, err := s.UpdateIf(ctx, "things", "missing", Filter{"available": true}, Fields{"available": false}); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_if_concurrent_single_winner", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id, _ := s.Create(ctx, "things", testDoc{Name: "a", Available: true})

		const attempts = 16
		var wg sync.WaitGroup
		wins := make(chan bool, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := s.UpdateIf(ctx, "things", id, Filter{"available": true}, Fields{"available": false})
				if err != nil {
					t.Errorf("update if: %v", err)
				}
				wins <- ok
			}()
		}
		wg.Wait()
		close(wins)
		n := 0
		for ok := range wins {
			if ok {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("expected exactly 1 winner, got %d", n)
		}
	})

	t.Run("increment", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id, _ := s.Create(ctx, "things", testDoc{Name: "a"})
		for want := int64(1); want <= 3; want++ {
			got, err := s.Increment(ctx, "things", id, "count", 1)
			if err != nil {
				t.Fatalf("increment: %v", err)
			}
			if got != want {
				t.Fatalf("increment = %d, want %d", got, want)
			}
		}
		var doc testDoc
		_ = s.FindOne(ctx, "things", id, &doc)
		if doc.Count != 3 {
			t.Fatalf("stored count = %d, want 3", doc.Count)
		}
		if _, err := s.Increment(ctx, "things", "missing", "count", 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("increment_concurrent_unique", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id, _ := s.Create(ctx, "things", testDoc{Name: "a"})

		const attempts = 20
		var wg sync.WaitGroup
		results := make(chan int64, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := s.Increment(ctx, "things", id, "count", 1)
				if err != nil {
					t.Errorf("increment: %v", err)
				}
				results <- n
			}()
		}
		wg.Wait()
		close(results)
		seen := make(map[int64]bool)
		for n := range results {
			if seen[n] {
				t.Fatalf("duplicate counter value %d", n)
			}
			seen[n] = true
		}
		for i := int64(1); i <= attempts; i++ {
			if !seen[i] {
				t.Fatalf("missing counter value %d", i)
			}
		}
	})
}
