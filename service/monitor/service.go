// Package monitor polls orchestrator statistics on an independent schedule
// and raises alerts on success-rate or duration regressions. It reads only;
// it never steers workflow control flow.
package monitor

import (
	"fmt"
	"log"
	"sync"

	"github.com/graphor/graphor/runtime/orchestrator"
	"github.com/robfig/cron/v3"
)

type (
	// Source is the read-only statistics surface the monitor polls.
	Source interface {
		Statistics() orchestrator.Statistics
	}

	// Config defines the polling schedule and alert thresholds.
	Config struct {
		// Schedule is a cron expression or descriptor such as "@every 5m".
		Schedule string `json:"schedule,omitempty" yaml:"schedule,omitempty"`

		// MinSuccessRate triggers an alert when the observed rate drops
		// below it.
		MinSuccessRate float64 `json:"minSuccessRate,omitempty" yaml:"minSuccessRate,omitempty"`

		// MaxAvgDurationMs triggers an alert when the average completed
		// duration exceeds it. Zero disables the check.
		MaxAvgDurationMs float64 `json:"maxAvgDurationMs,omitempty" yaml:"maxAvgDurationMs,omitempty"`

		// MinSample suppresses alerts until at least this many instances
		// have been seen.
		MinSample int `json:"minSample,omitempty" yaml:"minSample,omitempty"`
	}

	// Alert describes one threshold violation.
	Alert struct {
		Workflow string
		Reason   string
	}

	// Service evaluates the thresholds on each tick.
	Service struct {
		config  *Config
		source  Source
		alerter func(Alert)
		cron    *cron.Cron

		mu      sync.Mutex
		entryID cron.EntryID
		started bool
	}
)

// DefaultConfig returns the default monitoring configuration.
func DefaultConfig() *Config {
	return &Config{
		Schedule:       "@every 5m",
		MinSuccessRate: 0.9,
		MinSample:      10,
	}
}

// New creates a monitor over the statistics source.
func New(source Source, options ...Option) *Service {
	ret := &Service{
		config: DefaultConfig(),
		source: source,
		cron:   cron.New(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.alerter == nil {
		ret.alerter = func(alert Alert) {
			log.Printf("[monitor] workflow=%v %v", alert.Workflow, alert.Reason)
		}
	}
	return ret
}

// Start schedules the polling loop.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	entryID, err := s.cron.AddFunc(s.config.Schedule, s.tick)
	if err != nil {
		return fmt.Errorf("invalid monitor schedule %v: %w", s.config.Schedule, err)
	}
	s.entryID = entryID
	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts the polling loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cron.Remove(s.entryID)
	s.cron.Stop()
	s.started = false
}

func (s *Service) tick() {
	for _, alert := range s.Evaluate() {
		s.alerter(alert)
	}
}

// Evaluate applies the thresholds to a statistics snapshot and returns the
// violations, aggregate first.
func (s *Service) Evaluate() []Alert {
	stats := s.source.Statistics()
	var alerts []Alert
	if stats.Total < s.config.MinSample {
		return alerts
	}
	if stats.SuccessRate < s.config.MinSuccessRate {
		alerts = append(alerts, Alert{
			Reason: fmt.Sprintf("success rate %.2f below threshold %.2f", stats.SuccessRate, s.config.MinSuccessRate),
		})
	}
	if s.config.MaxAvgDurationMs > 0 && stats.AvgDurationMs > s.config.MaxAvgDurationMs {
		alerts = append(alerts, Alert{
			Reason: fmt.Sprintf("avg duration %.0fms above threshold %.0fms", stats.AvgDurationMs, s.config.MaxAvgDurationMs),
		})
	}
	for name, workflow := range stats.Workflows {
		if workflow.Total < s.config.MinSample {
			continue
		}
		rate := float64(workflow.Completed) / float64(workflow.Total)
		if rate < s.config.MinSuccessRate {
			alerts = append(alerts, Alert{
				Workflow: name,
				Reason:   fmt.Sprintf("success rate %.2f below threshold %.2f", rate, s.config.MinSuccessRate),
			})
		}
	}
	return alerts
}
