package usecase

import (
	"context"
	"fmt"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// Planner keeps the scheduler in sync with the run configuration and
// exposes manual triggering.
type Planner struct {
	driver      ports.Scheduler
	pipeline    *Pipeline
	configStore ports.ConfigStore
}

// NewPlanner wires the timer driver with the pipeline.
func NewPlanner(driver ports.Scheduler, pipeline *Pipeline, configStore ports.ConfigStore) *Planner {
	return &Planner{driver: driver, pipeline: pipeline, configStore: configStore}
}

// Reschedule arms the scheduler according to the configured frequency.
// A one-shot frequency leaves the scheduler disarmed.
func (s *Planner) Reschedule(ctx context.Context) error {
	cfg, err := s.configStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load run config: %w", err)
	}
	return s.driver.Rearm(cfg.Frequency)
}

// UpdateFrequency saves the new frequency and rearms the scheduler.
func (s *Planner) UpdateFrequency(ctx context.Context, frequency string) error {
	switch frequency {
	case domain.FreqOnce, domain.FreqDaily, domain.FreqWeekly, domain.FreqMonthly:
	default:
		return fmt.Errorf("unknown frequency %q", frequency)
	}

	cfg, err := s.configStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load run config: %w", err)
	}
	cfg.Frequency = frequency
	if err := s.configStore.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save run config: %w", err)
	}
	return s.driver.Rearm(frequency)
}

// TriggerNow runs the pipeline immediately. The armed timer is left
// untouched.
func (s *Planner) TriggerNow(ctx context.Context) error {
	return s.pipeline.Trigger(ctx)
}

// Stop disarms any pending run.
func (s *Planner) Stop() {
	s.driver.Disarm()
}
