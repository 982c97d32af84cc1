// Package scheduler runs the reminder digests on cron schedules in the
// deployment timezone. Each user's send is isolated: a failure is logged and
// the batch moves on.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	datesx "leadline/assistant/dates"
	digestx "leadline/assistant/digest"
	storex "leadline/assistant/store"
)

// Sender pushes digest text to a user's chat. The bot satisfies this.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

type Config struct {
	// Cron specs in standard five-field form, evaluated in the deployment
	// timezone.
	MorningSpec string `envconfig:"MORNING_SPEC" split_words:"true" default:"30 8 * * 1-5"`
	EveningSpec string `envconfig:"EVENING_SPEC" split_words:"true" default:"30 17 * * 1-5"`
	WeeklySpec  string `envconfig:"WEEKLY_SPEC" split_words:"true" default:"0 20 * * 0"`
}

type Scheduler struct {
	store  storex.Store
	sender Sender
	loc    *time.Location
	cron   *cron.Cron
	now    func() time.Time
}

func New(store storex.Store, sender Sender, loc *time.Location, cfg Config) (*Scheduler, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	if sender == nil {
		return nil, errors.New("sender is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		store:  store,
		sender: sender,
		loc:    loc,
		cron:   cron.New(cron.WithLocation(loc)),
		now:    time.Now,
	}

	jobs := []struct {
		spec string
		run  func(context.Context)
	}{
		{cfg.MorningSpec, s.runMorning},
		{cfg.EveningSpec, s.runEvening},
		{cfg.WeeklySpec, s.runWeekly},
	}
	for _, j := range jobs {
		run := j.run
		if _, err := s.cron.AddFunc(j.spec, func() { run(context.Background()) }); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("digest scheduler started")
}

func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) today() time.Time {
	return datesx.Truncate(s.now().In(s.loc))
}

// runMorning sends the day's digest to every user not on OOO.
func (s *Scheduler) runMorning(ctx context.Context) {
	today := s.today()

	users, err := s.store.ActiveUsers(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("morning digest: load users failed")
		return
	}

	for i := range users {
		user := &users[i]
		overdue, dueToday, err := s.dayBuckets(ctx, user.ID, today)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("morning digest: load leads failed")
			continue
		}

		if err := s.sender.SendMessage(user.TelegramID, digestx.Morning(user, overdue, dueToday)); err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("morning digest: send failed")
		}
	}
}

// runEvening checks in on still-pending leads; users with nothing pending get
// nothing.
func (s *Scheduler) runEvening(ctx context.Context) {
	today := s.today()

	users, err := s.store.ActiveUsers(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("evening digest: load users failed")
		return
	}

	for i := range users {
		user := &users[i]
		overdue, dueToday, err := s.dayBuckets(ctx, user.ID, today)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("evening digest: load leads failed")
			continue
		}

		pending := append(append([]storex.Lead{}, dueToday...), overdue...)
		if len(pending) == 0 {
			continue
		}

		if err := s.sender.SendMessage(user.TelegramID, digestx.Evening(user, pending)); err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("evening digest: send failed")
		}
	}
}

// runWeekly previews the coming week for everyone, OOO users included.
func (s *Scheduler) runWeekly(ctx context.Context) {
	today := s.today()
	monday, friday := WeekWindow(today)

	users, err := s.store.AllUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("weekly preview: load users failed")
		return
	}

	for i := range users {
		user := &users[i]

		week, err := s.store.LeadsDueThisWeek(ctx, user.ID, monday, friday)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("weekly preview: load leads failed")
			continue
		}
		overdue, err := s.store.OverdueLeads(ctx, user.ID, today)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("weekly preview: load leads failed")
			continue
		}

		if err := s.sender.SendMessage(user.TelegramID, digestx.Weekly(user, week, overdue)); err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("weekly preview: send failed")
		}
	}
}

func (s *Scheduler) dayBuckets(ctx context.Context, userID int64, today time.Time) (overdue, dueToday []storex.Lead, err error) {
	overdue, err = s.store.OverdueLeads(ctx, userID, today)
	if err != nil {
		return nil, nil, err
	}
	dueToday, err = s.store.LeadsDueToday(ctx, userID, today)
	if err != nil {
		return nil, nil, err
	}
	return overdue, dueToday, nil
}

// WeekWindow returns the Monday..Friday span of the week after ref, matching
// the Sunday-evening preview cadence.
func WeekWindow(ref time.Time) (monday, friday time.Time) {
	monday = datesx.NextWeekday(ref, time.Monday)
	return monday, monday.AddDate(0, 0, 4)
}
