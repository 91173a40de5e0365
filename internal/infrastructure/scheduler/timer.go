// Package scheduler arms a single timer for recurring pipeline runs.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// Scheduler states.
const (
	StateIdle    = "idle"
	StateArmed   = "armed"
	StateRunning = "running"
)

// Intervals per frequency. Monthly approximates a month as four weeks.
var intervals = map[string]time.Duration{
	domain.FreqDaily:   24 * time.Hour,
	domain.FreqWeekly:  7 * 24 * time.Hour,
	domain.FreqMonthly: 28 * 24 * time.Hour,
}

// TimerScheduler holds at most one pending timer. Rearming cancels the
// previous timer before starting the next, so frequency changes never
// leave two runs armed.
type TimerScheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	state   string
	nextRun time.Time
	gen     uint64
	job     func()
	log     *slog.Logger
}

var _ ports.Scheduler = (*TimerScheduler)(nil)

// New builds a scheduler that invokes job on every fire.
func New(job func(), log *slog.Logger) *TimerScheduler {
	return &TimerScheduler{
		state: StateIdle,
		job:   job,
		log:   log.With("component", "scheduler"),
	}
}

// Rearm cancels any pending timer and arms a new one for the given
// frequency. FreqOnce disarms instead.
func (s *TimerScheduler) Rearm(frequency string) error {
	if frequency == domain.FreqOnce || frequency == "" {
		s.Disarm()
		return nil
	}

	interval, ok := intervals[frequency]
	if !ok {
		return fmt.Errorf("unknown frequency %q", frequency)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.nextRun = time.Now().Add(interval)
	s.state = StateArmed
	s.timer = time.AfterFunc(interval, func() { s.fire(frequency, gen) })
	s.log.Info("scheduler armed", "frequency", frequency, "next_run", s.nextRun)
	return nil
}

// Disarm cancels the pending timer, if any.
func (s *TimerScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.state = StateIdle
	s.nextRun = time.Time{}
}

// State reports the current scheduler state.
func (s *TimerScheduler) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// NextRun reports when the next automatic run fires.
func (s *TimerScheduler) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun, s.state == StateArmed
}

func (s *TimerScheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *TimerScheduler) fire(frequency string, gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = StateRunning
	s.timer = nil
	s.mu.Unlock()

	if s.job != nil {
		s.job()
	}

	// rearm for the next cycle, unless a disarm or a newer Rearm
	// happened while the job ran
	s.mu.Lock()
	stale := s.gen != gen || s.state == StateIdle
	s.mu.Unlock()
	if stale {
		return
	}
	if err := s.Rearm(frequency); err != nil {
		s.log.Error("rearm after run", "error", err)
	}
}
