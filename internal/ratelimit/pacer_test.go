package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_EnforcesMinDelay(t *testing.T) {
	pacer := NewPacer(100 * time.Millisecond)
	ctx := context.Background()

	// First call should return immediately.
	start := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first wait took %v, expected immediate", elapsed)
	}

	start = time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}

	// Allow 80ms for timer jitter.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestWait_ZeroDelayNeverBlocks(t *testing.T) {
	pacer := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := pacer.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero delay should not block, took %v", elapsed)
	}
}

func TestWait_NilPacer(t *testing.T) {
	var pacer *Pacer
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("nil pacer: %v", err)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	pacer := NewPacer(5 * time.Second)

	// Consume the first token.
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pacer.Wait(ctx); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}
