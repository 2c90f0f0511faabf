package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vendora/backend/internal/application/monitoring"
	"github.com/vendora/backend/internal/infrastructure/config"
)

// SweepRunner executes one full monitoring sweep across all sellers
type SweepRunner interface {
	CheckAllSellers(ctx context.Context) (*monitoring.SweepResultResponse, error)
}

// SweepScheduler runs the monitoring sweep on a fixed interval.
// Request-triggered sweeps stay available; the scheduler is just an
// additional trigger calling the same coordinator.
type SweepScheduler struct {
	config config.SweepConfig
	runner SweepRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepScheduler creates a new sweep scheduler
func NewSweepScheduler(cfg config.SweepConfig, runner SweepRunner, logger *zap.Logger) (*SweepScheduler, error) {
	if cfg.Enabled && cfg.Interval <= 0 {
		return nil, ErrInvalidConfig
	}
	return &SweepScheduler{
		config: cfg,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the scheduler loop
func (s *SweepScheduler) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("Sweep scheduler disabled")
		return nil
	}

	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Sweep scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("concurrency", s.config.Concurrency),
	)
	return nil
}

// Stop gracefully stops the scheduler. An in-flight sweep finishes
// (bounded by the sweep timeout) unless the stop context expires first.
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sweep scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning returns whether the scheduler is running
func (s *SweepScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// RunNow triggers one sweep outside the schedule
func (s *SweepScheduler) RunNow(ctx context.Context) {
	s.sweep(ctx)
}

func (s *SweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SweepScheduler) sweep(ctx context.Context) {
	start := time.Now()
	result, err := s.runner.CheckAllSellers(ctx)
	if err != nil {
		s.logger.Error("Scheduled sweep failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("Scheduled sweep finished",
		zap.Int("products_checked", result.ProductsChecked),
		zap.Int("alerts_created", result.AlertsCreated),
		zap.Int("alerts_refreshed", result.AlertsRefreshed),
		zap.Int("failures", result.Failures),
		zap.Int64("duration_ms", result.DurationMS),
	)
}
