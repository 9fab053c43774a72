package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads the public collections.
type Refresher interface {
	Refresh(ctx context.Context, admin bool)
}

// Scheduler periodically refreshes state so rows edited outside the app show up.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// New registers the refresh job. An empty spec returns a nil Scheduler, which
// is safe to Start and Stop.
func New(spec string, r Refresher, log *zap.Logger) (*Scheduler, error) {
	if spec == "" {
		return nil, nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		cancel: cancel,
		log:    log,
	}
	_, err := s.cron.AddFunc(spec, func() {
		log.Debug("scheduled refresh")
		r.Refresh(s.ctx, false)
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.cron.Start()
	s.log.Info("refresh scheduler started")
}

// Stop halts the schedule and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("refresh scheduler stopped")
}
