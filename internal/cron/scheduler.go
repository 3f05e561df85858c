package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/calendarfeed"
	"github.com/eventsfp/booking-backend/internal/checkin"
)

// jobTimeout bounds each maintenance run.
const jobTimeout = 5 * time.Minute

// Scheduler runs the periodic maintenance jobs: expiring stale check-in
// tokens hourly and purging expired calendar feeds nightly.
type Scheduler struct {
	cron     *cron.Cron
	checkins checkin.Service
	feeds    calendarfeed.Service
	logger   *zap.Logger
}

func NewScheduler(checkins checkin.Service, feeds calendarfeed.Service, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		checkins: checkins,
		feeds:    feeds,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc("@hourly", s.expireCheckinTokens); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.purgeExpiredFeeds); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("maintenance scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("maintenance scheduler stopped")
}

func (s *Scheduler) expireCheckinTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.checkins.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("check-in token sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired check-in tokens", zap.Int64("count", n))
	}
}

func (s *Scheduler) purgeExpiredFeeds() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.feeds.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("calendar feed purge failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("purged expired calendar feeds", zap.Int64("count", n))
	}
}
