package utils

import (
	"context"
	"errors"
	"testing"
)

func TestProcessItems(t *testing.T) {
	pool := NewWorkerPool(4, func(ctx context.Context, item int) (int, error) {
		return item * 2, nil
	})

	items := []int{1, 2, 3, 4, 5}
	results, errs := pool.ProcessItems(context.Background(), items)

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, item := range items {
		if errs[i] != nil {
			t.Errorf("unexpected error for item %d: %v", item, errs[i])
		}
		if results[i] != item*2 {
			t.Errorf("expected %d, got %d", item*2, results[i])
		}
	}
}

func TestProcessItemsEmpty(t *testing.T) {
	pool := NewWorkerPool(4, func(ctx context.Context, item int) (int, error) {
		return item, nil
	})

	results, errs := pool.ProcessItems(context.Background(), nil)
	if results != nil || errs != nil {
		t.Error("expected nil results for empty input")
	}
}

func TestProcessItemsPerItemErrors(t *testing.T) {
	wantErr := errors.New("odd item")
	pool := NewWorkerPool(2, func(ctx context.Context, item int) (int, error) {
		if item%2 == 1 {
			return 0, wantErr
		}
		return item, nil
	})

	_, errs := pool.ProcessItems(context.Background(), []int{1, 2, 3, 4})
	if !errors.Is(errs[0], wantErr) || !errors.Is(errs[2], wantErr) {
		t.Error("expected errors on odd items")
	}
	if errs[1] != nil || errs[3] != nil {
		t.Error("expected no errors on even items")
	}
}

func TestProcessItemsPanicIsolation(t *testing.T) {
	pool := NewWorkerPool(2, func(ctx context.Context, item int) (int, error) {
		if item == 3 {
			panic("bad item")
		}
		return item, nil
	})

	results, errs := pool.ProcessItems(context.Background(), []int{1, 2, 3, 4})

	var panicErr *PanicError
	if !errors.As(errs[2], &panicErr) {
		t.Fatalf("expected PanicError for the panicking item, got %v", errs[2])
	}
	for _, i := range []int{0, 1, 3} {
		if errs[i] != nil {
			t.Errorf("sibling item %d must be unaffected, got %v", i, errs[i])
		}
		if results[i] == 0 {
			t.Errorf("sibling item %d lost its result", i)
		}
	}
}

func TestConcurrencyLimitEnv(t *testing.T) {
	t.Setenv("CLASSIFICO_CONCURRENCY", "12")
	if got := ConcurrencyLimit(); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}

	t.Setenv("CLASSIFICO_CONCURRENCY", "not-a-number")
	if got := ConcurrencyLimit(); got != DefaultConcurrencyLimit {
		t.Errorf("expected default for invalid value, got %d", got)
	}

	t.Setenv("CLASSIFICO_CONCURRENCY", "-1")
	if got := ConcurrencyLimit(); got != DefaultConcurrencyLimit {
		t.Errorf("expected default for non-positive value, got %d", got)
	}
}

func TestRecoverAsError(t *testing.T) {
	run := func() (err error) {
		defer RecoverAsError(&err)
		panic("boom")
	}

	err := run()
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %v", err)
	}
	if panicErr.Value != "boom" {
		t.Errorf("expected panic value 'boom', got %v", panicErr.Value)
	}
	if panicErr.StackTrace == "" {
		t.Error("expected a captured stack trace")
	}
}
