package asyncx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach_RunsEveryItem(t *testing.T) {
	var calls atomic.Int64

	err := ForEach(context.Background(), []int{1, 2, 3, 4}, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 4 {
		t.Fatalf("expected 4 calls, got %d", calls.Load())
	}
}

func TestForEach_ErrorAfterAllFinish(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int64

	err := ForEach(context.Background(), []int{1, 2, 3}, func(_ context.Context, n int) error {
		calls.Add(1)
		if n == 2 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	// A failing item must not abandon the remaining ones.
	if calls.Load() != 3 {
		t.Fatalf("expected all 3 items attempted, got %d", calls.Load())
	}
}

func TestForEach_Empty(t *testing.T) {
	err := ForEach(context.Background(), nil, func(context.Context, int) error {
		t.Fatal("fn must not run for an empty slice")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAllSettled_PreservesOrder(t *testing.T) {
	boom := errors.New("boom")

	results := AllSettled(context.Background(),
		func(context.Context) (int, error) { return 1, nil },
		func(context.Context) (int, error) { return 0, boom },
		func(context.Context) (int, error) { return 3, nil },
	)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].OK() || results[0].Value != 1 {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].OK() || !errors.Is(results[1].Err, boom) {
		t.Fatalf("unexpected second result %+v", results[1])
	}
	if !results[2].OK() || results[2].Value != 3 {
		t.Fatalf("unexpected third result %+v", results[2])
	}
}
