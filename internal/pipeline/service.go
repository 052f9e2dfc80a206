package pipeline

import (
	"context"
	"time"
)

// Service runs the inventory pipeline periodically and on demand
// through ForceRun. Runs are serialized by the single run loop.
type Service struct {
	runner *Runner
	period time.Duration
	logger Logger

	// Internal fields
	force     chan chan error
	runCancel context.CancelFunc
	stopCh    chan<- struct{}
	done      <-chan struct{}
}

func NewService(runner *Runner, period time.Duration,
	logger Logger) *Service {
	return &Service{
		runner: runner,
		period: period,
		logger: logger,
		force:  make(chan chan error),
	}
}

func (s *Service) String() string {
	return "inventory pipeline"
}

func (s *Service) Start(ctx context.Context) (runError <-chan error, startErr error) {
	ready := make(chan struct{})
	runErrorCh := make(chan error)
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	done := make(chan struct{})
	s.done = done

	runCtx, runCancel := context.WithCancel(context.Background())
	s.runCancel = runCancel

	go s.run(runCtx, ready, runErrorCh, stopCh, done)
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, s.Stop()
	}
	return runErrorCh, nil
}

func (s *Service) run(ctx context.Context, ready chan<- struct{},
	_ chan<- error, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.logger.Info("running the inventory pipeline every " + s.period.String())
	timer := time.NewTimer(s.period)
	close(ready)

	for {
		select {
		case <-timer.C:
			err := s.runner.RunOnce(ctx)
			if err != nil {
				// run errors are not fatal to the service,
				// the next period retries from persisted state
				s.logger.Error("inventory run: " + err.Error())
			}
			timer.Reset(s.period)
		case result := <-s.force:
			err := s.runner.RunOnce(ctx)
			result <- err
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.period)
		case <-stopCh:
			_ = timer.Stop()
			return
		}
	}
}

// ForceRun triggers an immediate run and waits for its result.
func (s *Service) ForceRun(ctx context.Context) (err error) {
	result := make(chan error)
	select {
	case s.force <- result:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err = <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) Stop() (err error) {
	s.runCancel()
	close(s.stopCh)
	<-s.done
	return nil
}
