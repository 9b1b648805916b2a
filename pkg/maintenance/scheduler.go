// Package maintenance runs periodic database upkeep while the server is up.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rubiojr/seekr/pkg/log"
)

var logger = log.ForService("maintenance")

// Store is the upkeep surface of the result store.
type Store interface {
	Optimize(ctx context.Context) error
	Analyze(ctx context.Context) error
	WALCheckpoint(ctx context.Context) error
}

type Config struct {
	// Interval between runs. Non-positive disables the scheduler.
	Interval time.Duration
}

// Scheduler runs PRAGMA optimize, ANALYZE and a WAL checkpoint every
// Interval until stopped.
type Scheduler struct {
	config Config
	store  Store

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	runs    int
}

func NewScheduler(config Config, store Store) *Scheduler {
	return &Scheduler{config: config, store: store}
}

// Start launches the ticker goroutine. It is a no-op when the interval is
// disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("maintenance scheduler already running")
	}
	if s.config.Interval <= 0 {
		logger.Infof("database maintenance disabled")
		return nil
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.wg.Add(1)
	go s.run(ctx)

	logger.Infof("database maintenance every %v", s.config.Interval)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				logger.Warnf("database maintenance failed: %v", err)
			}
		}
	}
}

// RunOnce performs one maintenance pass.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"optimize", s.store.Optimize},
		{"analyze", s.store.Analyze},
		{"checkpoint", s.store.WALCheckpoint},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	logger.Debugf("database maintenance completed in %v", time.Since(start))
	return nil
}

// Runs returns how many passes completed successfully.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Stop cancels the ticker goroutine and waits for an in-flight pass.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
