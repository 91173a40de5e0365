package scheduler

import (
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"techwatch/internal/domain"
)

func TestRearmReplacesPendingTimer(t *testing.T) {
	t.Parallel()

	s := New(func() {}, slog.Default())
	if err := s.Rearm(domain.FreqDaily); err != nil {
		t.Fatalf("rearm daily: %v", err)
	}
	firstNext, armed := s.NextRun()
	if !armed {
		t.Fatal("expected armed state")
	}

	if err := s.Rearm(domain.FreqWeekly); err != nil {
		t.Fatalf("rearm weekly: %v", err)
	}
	secondNext, armed := s.NextRun()
	if !armed {
		t.Fatal("expected armed state after rearm")
	}
	if !secondNext.After(firstNext.Add(5 * 24 * time.Hour)) {
		t.Fatalf("weekly rearm should push next run out: %s -> %s", firstNext, secondNext)
	}
	if s.State() != StateArmed {
		t.Fatalf("state = %s", s.State())
	}
}

func TestRearmDuringRunSurvivesSelfRearm(t *testing.T) {
	t.Parallel()

	var s *TimerScheduler
	s = New(func() {
		// a reconfiguration lands while the job is still running
		if err := s.Rearm(domain.FreqWeekly); err != nil {
			t.Errorf("rearm weekly: %v", err)
		}
	}, slog.Default())

	if err := s.Rearm(domain.FreqDaily); err != nil {
		t.Fatalf("rearm daily: %v", err)
	}
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	s.fire(domain.FreqDaily, gen)

	next, armed := s.NextRun()
	if !armed {
		t.Fatal("expected armed state after run")
	}
	if !next.After(time.Now().Add(6 * 24 * time.Hour)) {
		t.Fatalf("daily self-rearm overwrote the weekly reconfiguration, next run %s", time.Until(next))
	}
}

func TestStaleTimerFireIsIgnored(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	s := New(func() { fired.Add(1) }, slog.Default())

	if err := s.Rearm(domain.FreqDaily); err != nil {
		t.Fatalf("rearm daily: %v", err)
	}
	s.mu.Lock()
	staleGen := s.gen
	s.mu.Unlock()

	if err := s.Rearm(domain.FreqWeekly); err != nil {
		t.Fatalf("rearm weekly: %v", err)
	}
	s.fire(domain.FreqDaily, staleGen)

	if fired.Load() != 0 {
		t.Fatal("job ran on a cancelled timer generation")
	}
	next, armed := s.NextRun()
	if !armed || !next.After(time.Now().Add(6*24*time.Hour)) {
		t.Fatalf("weekly arming lost: armed=%v next=%s", armed, time.Until(next))
	}
}

func TestRearmOnceDisarms(t *testing.T) {
	t.Parallel()

	s := New(func() {}, slog.Default())
	if err := s.Rearm(domain.FreqDaily); err != nil {
		t.Fatalf("rearm: %v", err)
	}
	if err := s.Rearm(domain.FreqOnce); err != nil {
		t.Fatalf("rearm once: %v", err)
	}

	if s.State() != StateIdle {
		t.Fatalf("state = %s", s.State())
	}
	if _, armed := s.NextRun(); armed {
		t.Fatal("once should leave nothing armed")
	}
}

func TestRearmUnknownFrequency(t *testing.T) {
	t.Parallel()

	s := New(func() {}, slog.Default())
	if err := s.Rearm("hourly"); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}

func TestDisarmStopsFiring(t *testing.T) {
	t.Parallel()

	var fired atomic.Int32
	s := New(func() { fired.Add(1) }, slog.Default())
	if err := s.Rearm(domain.FreqDaily); err != nil {
		t.Fatalf("rearm: %v", err)
	}
	s.Disarm()

	if s.State() != StateIdle {
		t.Fatalf("state = %s", s.State())
	}
	if fired.Load() != 0 {
		t.Fatal("job fired after disarm")
	}
}
