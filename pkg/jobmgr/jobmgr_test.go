package jobmgr

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunOnce_FiresExactlyOnce(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	var fired int32
	done := make(chan struct{})
	m.RunOnce("once", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&fired, 1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
	time.Sleep(50 * time.Millisecond)

	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
	if active := m.Active(); len(active) != 0 {
		t.Errorf("fired job still tracked: %v", active)
	}
}

func TestRunOnce_CancelPreventsFire(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	var fired int32
	job := m.RunOnce("cancelled", 50*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&fired, 1)
	})
	m.Cancel(job)

	time.Sleep(150 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 0 {
		t.Fatalf("cancelled job fired %d times", got)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	var cancelled int32
	m.Reporter = func(s string) {
		if s == "cancelled:twice" {
			atomic.AddInt32(&cancelled, 1)
		}
	}

	job := m.RunOnce("twice", time.Hour, func(ctx context.Context) {})
	m.Cancel(job)
	m.Cancel(job)
	m.Cancel(nil)

	if got := atomic.LoadInt32(&cancelled); got != 1 {
		t.Fatalf("cancel reported %d times, want 1", got)
	}
}

func TestCancel_AfterFireIsNoop(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	done := make(chan struct{})
	job := m.RunOnce("done", 5*time.Millisecond, func(ctx context.Context) {
		close(done)
	})

	<-done
	time.Sleep(20 * time.Millisecond)
	m.Cancel(job) // must not panic or report
	if active := m.Active(); len(active) != 0 {
		t.Errorf("jobs still tracked after fire+cancel: %v", active)
	}
}

func TestRunRepeating_TicksAndStops(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	var ticks int32
	job := m.RunRepeating("ticker", 20*time.Millisecond, 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&ticks, 1)
	})

	time.Sleep(120 * time.Millisecond)
	m.Cancel(job)
	after := atomic.LoadInt32(&ticks)
	if after < 2 {
		t.Fatalf("got %d ticks, want at least 2", after)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&ticks); got-after > 1 {
		t.Errorf("repeating job kept firing after cancel: %d extra ticks", got-after)
	}
}

func TestRunRepeating_PanicDoesNotStopFutureTicks(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	var ticks int32
	m.RunRepeating("flaky", 15*time.Millisecond, 5*time.Millisecond, func(ctx context.Context) {
		if atomic.AddInt32(&ticks, 1) == 1 {
			panic("first tick blows up")
		}
	})

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&ticks) < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks after panic, want 3+", atomic.LoadInt32(&ticks))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestShutdown_CancelsEverything(t *testing.T) {
	m := New(nil)

	m.RunOnce("a", time.Hour, func(ctx context.Context) {})
	m.RunOnce("b", time.Hour, func(ctx context.Context) {})
	m.RunRepeating("c", time.Hour, time.Hour, func(ctx context.Context) {})

	m.Shutdown()
	if active := m.Active(); len(active) != 0 {
		t.Fatalf("jobs still pending after shutdown: %v", active)
	}
}

func TestStatus(t *testing.T) {
	m := New(nil)
	defer m.Shutdown()

	if got := m.Status(); got != "No jobs are pending." {
		t.Errorf("empty status = %q", got)
	}
	m.RunOnce("solo", time.Hour, func(ctx context.Context) {})
	if got := m.Status(); got != "Pending jobs: solo" {
		t.Errorf("status = %q", got)
	}
}
