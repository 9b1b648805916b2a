package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBurstRunsOnce(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 10)
	d := New(100*time.Millisecond, func() {
		calls.Add(1)
		done <- struct{}{}
	})

	for range 10 {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}

	// Give a stray second run the chance to show up.
	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after the run")
	}
}

func TestTriggerRestartsQuietPeriod(t *testing.T) {
	fired := make(chan time.Time, 1)
	d := New(50*time.Millisecond, func() { fired <- time.Now() })

	start := time.Now()
	d.Trigger()
	time.Sleep(30 * time.Millisecond)
	d.Trigger()

	select {
	case at := <-fired:
		if elapsed := at.Sub(start); elapsed < 75*time.Millisecond {
			t.Errorf("fired after %v, expected the second trigger to restart the timer", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced function never ran")
	}
}

func TestStop(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	if !d.Pending() {
		t.Fatal("expected a pending run after Trigger")
	}
	d.Stop()
	if d.Pending() {
		t.Error("Stop should clear the pending run")
	}

	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("stopped debouncer must not run")
	}
}
