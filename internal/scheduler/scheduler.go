// Package scheduler runs the periodic housekeeping jobs: flipping upcoming
// matches to live once their scheduled time passes, and pruning expired
// sessions.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

type Storage interface {
	ActivateDueMatches(ctx context.Context) (int64, error)
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

type Scheduler struct {
	inner gocron.Scheduler
}

func New(store Storage, activateEvery time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(activateEvery),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := store.ActivateDueMatches(ctx)
			if err != nil {
				log.Error().Err(err).Msg("match activation failed")
				return
			}
			if n > 0 {
				log.Info().Int64("matches", n).Msg("matches went live")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := store.DeleteExpiredSessions(ctx)
			if err != nil {
				log.Error().Err(err).Msg("session pruning failed")
				return
			}
			if n > 0 {
				log.Info().Int64("sessions", n).Msg("expired sessions pruned")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Scheduler{inner: s}, nil
}

func (s *Scheduler) Start() {
	s.inner.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.inner.Shutdown()
}
