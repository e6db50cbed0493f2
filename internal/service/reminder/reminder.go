// Package reminder announces upcoming appointments. It reads the profile
// store but never writes to it, preserving the single-writer rule on the
// turn-processing path.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/fbianco/edbot/internal/core"
	"github.com/fbianco/edbot/pkg/log"
)

const (
	defaultInterval = time.Minute
	lookAhead       = 15 * time.Minute
	fetchLimit      = 10
)

type Store interface {
	NextAppointments(ctx context.Context, limit int) ([]core.Appointment, error)
}

type Service struct {
	store     Store
	actions   core.ActionRunner
	speaker   core.Speaker
	Interval  time.Duration
	announced map[int64]struct{}
	now       func() time.Time
}

func New(store Store, actions core.ActionRunner, speaker core.Speaker) *Service {
	return &Service{
		store:     store,
		actions:   actions,
		speaker:   speaker,
		Interval:  defaultInterval,
		announced: make(map[int64]struct{}),
		now:       time.Now,
	}
}

func (s *Service) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", s.Interval).Msg("starting appointment reminders")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				logger.Error().Err(err).Msg("reminder tick failed")
			}
		}
	}
}

func (s *Service) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Service) tick(ctx context.Context) error {
	appts, err := s.store.NextAppointments(ctx, fetchLimit)
	if err != nil {
		return fmt.Errorf("fetch appointments: %w", err)
	}

	for _, appt := range due(appts, s.now(), lookAhead) {
		if _, seen := s.announced[appt.ID]; seen {
			continue
		}
		s.announce(ctx, appt)
		s.announced[appt.ID] = struct{}{}
	}
	return nil
}

// due filters to notify-enabled appointments within the look-ahead horizon.
func due(appts []core.Appointment, now time.Time, horizon time.Duration) []core.Appointment {
	var out []core.Appointment
	for _, a := range appts {
		if !a.Notify {
			continue
		}
		if a.Moment.Before(now) || a.Moment.After(now.Add(horizon)) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (s *Service) announce(ctx context.Context, appt core.Appointment) {
	logger := log.FromCtx(ctx)
	text := fmt.Sprintf("Reminder: %s at %s", appt.Title, appt.Moment.Local().Format("15:04"))

	if _, err := s.actions.Run(ctx, core.ActionNotify, text); err != nil {
		logger.Warn().Err(err).Msg("desktop notification failed")
	}
	if s.speaker != nil {
		if err := s.speaker.Say(ctx, text); err != nil {
			logger.Warn().Err(err).Msg("spoken reminder failed")
		}
	}
}
