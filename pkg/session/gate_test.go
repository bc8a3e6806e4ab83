package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGate_TryAcquire(t *testing.T) {
	g := newGate()

	if !g.TryAcquire() {
		t.Fatal("TryAcquire should succeed on a free gate")
	}
	if g.TryAcquire() {
		t.Fatal("TryAcquire should fail while the gate is held")
	}

	g.Release()
	if !g.TryAcquire() {
		t.Fatal("TryAcquire should succeed after release")
	}
	g.Release()
}

func TestGate_AcquireBlocksUntilRelease(t *testing.T) {
	g := newGate()

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := g.Acquire(context.Background()); err != nil {
			t.Errorf("second Acquire failed: %v", err)
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire should block while the gate is held")
	case <-time.After(20 * time.Millisecond):
	}

	g.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Acquire should proceed after release")
	}
	g.Release()
}

func TestGate_AcquireHonorsContext(t *testing.T) {
	g := newGate()

	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := g.Acquire(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestGate_SingleHolderUnderContention(t *testing.T) {
	g := newGate()

	var holders int
	var violations int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			mu.Lock()
			holders++
			if holders > 1 {
				violations++
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			g.Release()
		}()
	}
	wg.Wait()

	if violations != 0 {
		t.Errorf("Gate admitted %d concurrent holders", violations+1)
	}
}
