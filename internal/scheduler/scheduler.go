package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/verbbot/internal/trainer"
	"github.com/go-co-op/gocron"
)

// Defaults for reminder hours (UTC)
const (
	DefaultNotificationStartHour = 0
	DefaultNotificationEndHour   = 23
)

// DefaultSweepGrace leaves a just-expired round for the user's next answer to close
const DefaultSweepGrace = 30 * time.Second

const jobTimeout = 30 * time.Second

// Notifier delivers a message that no user request asked for
type Notifier interface {
	Notify(userID int64, reply trainer.Reply) error
}

// Trainer is the part of the controller the jobs drive
type Trainer interface {
	ReminderCandidates(ctx context.Context, threshold time.Duration) ([]int64, error)
	ReminderReply() trainer.Reply
	MarkReminded(ctx context.Context, userID int64) error
	SweepExpiredSpeed(ctx context.Context, grace time.Duration) ([]trainer.Expired, error)
}

// Config selects which jobs run and how often
type Config struct {
	ReminderEnabled       bool
	ReminderInactivity    time.Duration
	ReminderCheckInterval time.Duration
	StartHour             int // Reminders go out only from StartHour to EndHour, inclusive
	EndHour               int
	SweepInterval         time.Duration // Zero disables the speed-round sweep
	SweepGrace            time.Duration
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	trainer   Trainer
	notifier  Notifier
	cfg       Config
	logger    *log.Logger
	nowFn     func() time.Time
}

// New creates a new scheduler instance
func New(tr Trainer, notifier Notifier, cfg Config, logger *log.Logger) *Scheduler {
	if cfg.SweepGrace <= 0 {
		cfg.SweepGrace = DefaultSweepGrace
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		trainer:   tr,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
		nowFn:     time.Now,
	}
}

// Start registers the jobs and runs them in the background
func (s *Scheduler) Start() error {
	if s.cfg.ReminderEnabled {
		if s.cfg.ReminderCheckInterval <= 0 {
			return fmt.Errorf("reminder check interval must be positive")
		}
		if _, err := s.scheduler.Every(s.cfg.ReminderCheckInterval).Do(s.checkAndSendReminders); err != nil {
			return fmt.Errorf("schedule reminders: %w", err)
		}
	}

	if s.cfg.SweepInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.SweepInterval).Do(s.sweepSpeedRounds); err != nil {
			return fmt.Errorf("schedule speed sweep: %w", err)
		}
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Jobs returns the number of registered jobs
func (s *Scheduler) Jobs() int {
	return s.scheduler.Len()
}

func (s *Scheduler) checkAndSendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if sent := s.RunReminders(ctx); sent > 0 {
		s.logger.Printf("sent %d inactivity reminders", sent)
	}
}

func (s *Scheduler) sweepSpeedRounds() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if n := s.RunSweep(ctx); n > 0 {
		s.logger.Printf("closed %d expired speed rounds", n)
	}
}

// RunReminders sends a reminder to every inactive user and returns how many
// were delivered. Nothing is sent outside the notification hours.
func (s *Scheduler) RunReminders(ctx context.Context) int {
	currentHour := s.nowFn().UTC().Hour()
	if currentHour < s.cfg.StartHour || currentHour > s.cfg.EndHour {
		s.logger.Printf("current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.cfg.StartHour, s.cfg.EndHour)
		return 0
	}

	users, err := s.trainer.ReminderCandidates(ctx, s.cfg.ReminderInactivity)
	if err != nil {
		s.logger.Printf("get users for reminders: %v", err)
		return 0
	}

	sent := 0
	reply := s.trainer.ReminderReply()
	for _, userID := range users {
		if err := s.notifier.Notify(userID, reply); err != nil {
			s.logger.Printf("send reminder to user %d: %v", userID, err)
			continue
		}
		if err := s.trainer.MarkReminded(ctx, userID); err != nil {
			s.logger.Printf("mark user %d reminded: %v", userID, err)
		}
		sent++
	}
	return sent
}

// RunSweep closes speed rounds left open past their deadline and sends each
// user the round summary. It returns the number of rounds closed.
func (s *Scheduler) RunSweep(ctx context.Context) int {
	expired, err := s.trainer.SweepExpiredSpeed(ctx, s.cfg.SweepGrace)
	if err != nil {
		s.logger.Printf("sweep speed rounds: %v", err)
		return 0
	}

	for _, e := range expired {
		if err := s.notifier.Notify(e.UserID, e.Reply); err != nil {
			s.logger.Printf("send speed summary to user %d: %v", e.UserID, err)
		}
	}
	return len(expired)
}
