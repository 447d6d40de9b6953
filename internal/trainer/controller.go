// Package trainer runs the training state machine for each user. It turns
// menu actions and free-text answers into replies and keeps the per-user
// record in a state.Store.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/verbbot/internal/selector"
	"github.com/example/verbbot/internal/state"
	"github.com/example/verbbot/pkg/models"
	"github.com/google/uuid"
)

// ErrInvariantViolation is logged when a stored session is unusable
var ErrInvariantViolation = state.ErrInvariantViolation

// Default timings
const (
	DefaultSpeedDuration = 60 * time.Second
	DefaultReminderAfter = 24 * time.Hour
)

// Reply is what the transport should show for one request
type Reply struct {
	Text          string
	Controls      [][]Action
	Markdown      bool
	Edit          bool // Replace the message the action came from
	DailyReminder bool // Setting shown on the reminder toggles
}

// Options tunes a Controller
type Options struct {
	SpeedDuration time.Duration
	ReminderAfter time.Duration
	Now           func() time.Time
	NewRunID      func() string
}

// Controller drives training sessions
type Controller struct {
	store    state.Store
	locker   *state.Locker
	selector *selector.Selector
	logger   *log.Logger

	speedDuration time.Duration
	reminderAfter time.Duration
	nowFn         func() time.Time
	newRunID      func() string
}

// New creates a controller
func New(store state.Store, sel *selector.Selector, logger *log.Logger, opts Options) *Controller {
	c := &Controller{
		store:         store,
		locker:        state.NewLocker(),
		selector:      sel,
		logger:        logger,
		speedDuration: opts.SpeedDuration,
		reminderAfter: opts.ReminderAfter,
		nowFn:         opts.Now,
		newRunID:      opts.NewRunID,
	}
	if c.speedDuration <= 0 {
		c.speedDuration = DefaultSpeedDuration
	}
	if c.reminderAfter <= 0 {
		c.reminderAfter = DefaultReminderAfter
	}
	if c.nowFn == nil {
		c.nowFn = time.Now
	}
	if c.newRunID == nil {
		c.newRunID = func() string { return uuid.NewString() }
	}
	return c
}

// HandleMenuAction applies a control action for the user
func (c *Controller) HandleMenuAction(ctx context.Context, userID int64, action Action) Reply {
	return c.withUser(ctx, userID, func(u *state.User, now time.Time) (Reply, error) {
		switch action {
		case ActionTrainForms, ActionFormsNext:
			return c.startDrill(u, models.ModeForms, action == ActionTrainForms)
		case ActionTrainTranslation, ActionTranslationNext:
			return c.startDrill(u, models.ModeTranslation, action == ActionTrainTranslation)
		case ActionMix, ActionMixNext:
			return c.startMix(u, action == ActionMix)
		case ActionSpeed:
			return c.startSpeed(u, now)
		case ActionRepeatErrors:
			return c.startRepeat(u), nil
		case ActionRepeatNext:
			c.skipRepeat(u)
			return c.startRepeat(u), nil
		case ActionSpeedStop:
			return c.stopSpeed(u), nil
		case ActionBackToMenu:
			u.Reset()
			return c.menu(u, chooseModeText, true), nil
		case ActionStats:
			return c.stats(u, true), nil
		case ActionSettings:
			return c.settings(u), nil
		case ActionHelp:
			return c.help(u, true), nil
		case ActionToggleDaily:
			u.Settings.DailyReminder = !u.Settings.DailyReminder
			return c.settings(u), nil
		case ActionToggleDailyMain:
			u.Settings.DailyReminder = !u.Settings.DailyReminder
			return c.menu(u, chooseModeText, true), nil
		case ActionLevel1, ActionLevel2, ActionLevel3:
			// The stored pool is kept until it runs out
			u.Settings.Tier = levelOf(action)
			return c.menu(u, chooseModeText, false), nil
		}
		return c.menu(u, chooseModeText, false), nil
	})
}

// HandleCommand answers a slash command
func (c *Controller) HandleCommand(ctx context.Context, userID int64, cmd Command) Reply {
	return c.withUser(ctx, userID, func(u *state.User, now time.Time) (Reply, error) {
		switch cmd {
		case CommandStart:
			reply := c.menu(u, welcomeText, false)
			reply.Markdown = true
			return reply, nil
		case CommandHelp:
			return c.help(u, false), nil
		case CommandStats:
			return c.stats(u, false), nil
		case CommandDailyOn:
			if u.Settings.DailyReminder {
				return c.menu(u, dailyAlreadyOn, false), nil
			}
			u.Settings.DailyReminder = true
			return c.menu(u, dailyOnText(c.reminderAfter), false), nil
		case CommandDailyOff:
			u.Settings.DailyReminder = false
			return c.menu(u, dailyOffText, false), nil
		}
		return c.menu(u, chooseModeText, false), nil
	})
}

// HandleTextAnswer evaluates free text against the active session
func (c *Controller) HandleTextAnswer(ctx context.Context, userID int64, text string) Reply {
	return c.withUser(ctx, userID, func(u *state.User, now time.Time) (Reply, error) {
		switch s := u.Session.(type) {
		case state.Forms:
			return c.answerDrill(u, models.ModeForms, s.Verb, text, now, ActionFormsNext), nil
		case state.Translation:
			return c.answerDrill(u, models.ModeTranslation, s.Verb, text, now, ActionTranslationNext), nil
		case state.Mix:
			return c.answerDrill(u, s.Submode, s.Verb, text, now, ActionMixNext), nil
		case state.Repeat:
			return c.answerRepeat(u, s, text, now), nil
		case *state.Speed:
			return c.answerSpeed(u, s, text, now)
		}
		return c.menu(u, readyText, false), nil
	})
}

// Stats is a read-only view of a user's counters
type Stats struct {
	Progress models.Progress
	Mistakes int
}

// StatsSnapshot returns the user's counters and ledger size
func (c *Controller) StatsSnapshot(ctx context.Context, userID int64) (Stats, error) {
	u, err := c.load(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Progress: u.Progress, Mistakes: u.Ledger.Len()}, nil
}

// SettingsSnapshot returns the user's settings
func (c *Controller) SettingsSnapshot(ctx context.Context, userID int64) (models.Settings, error) {
	u, err := c.load(ctx, userID)
	if err != nil {
		return models.Settings{}, err
	}
	return u.Settings, nil
}

// IsInactiveFor reports whether the user has not answered for threshold.
// Unknown users are not inactive.
func (c *Controller) IsInactiveFor(ctx context.Context, userID int64, threshold time.Duration) (bool, error) {
	u, err := c.store.Get(ctx, userID)
	if errors.Is(err, state.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.InactiveFor(threshold, c.nowFn()), nil
}

// withUser runs fn on a copy of the user's record under the user's lock and
// stores the copy only when fn succeeds.
func (c *Controller) withUser(ctx context.Context, userID int64, fn func(u *state.User, now time.Time) (Reply, error)) Reply {
	unlock := c.locker.Lock(userID)
	defer unlock()

	u, err := c.load(ctx, userID)
	if err != nil {
		c.logger.Printf("load user %d: %v", userID, err)
		return c.fallback()
	}

	if err := state.Validate(u.Session); err != nil {
		c.logger.Printf("reset session for user %d: %v", userID, err)
		u.Reset()
	}

	reply, err := fn(u, c.nowFn())
	if err != nil {
		c.logger.Printf("user %d: %v", userID, err)
		return c.fallback()
	}

	if err := c.store.Put(ctx, u); err != nil {
		c.logger.Printf("save user %d: %v", userID, err)
		return c.fallback()
	}
	return reply
}

// load returns the stored record or a new one for first contact
func (c *Controller) load(ctx context.Context, userID int64) (*state.User, error) {
	u, err := c.store.Get(ctx, userID)
	if errors.Is(err, state.ErrNotFound) {
		return state.NewUser(userID, c.nowFn()), nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// draw serves the next verb for the user's tier. A fresh start drops a pool
// that was built for another tier.
func (c *Controller) draw(u *state.User, fresh bool) (*models.Verb, error) {
	pool := u.Pool
	if fresh && pool != nil && pool.Tier != u.Settings.Tier {
		pool = nil
	}

	verb, pool, err := c.selector.Next(pool, u.Settings.Tier)
	if err != nil {
		return nil, fmt.Errorf("draw verb: %w", err)
	}
	u.Pool = pool
	return verb, nil
}

func (c *Controller) menu(u *state.User, text string, edit bool) Reply {
	return Reply{
		Text:          text,
		Controls:      mainMenuControls,
		Edit:          edit,
		DailyReminder: u.Settings.DailyReminder,
	}
}

func (c *Controller) stats(u *state.User, edit bool) Reply {
	reply := c.menu(u, statsText(u.Progress, u.Ledger.Len()), edit)
	reply.Markdown = true
	return reply
}

func (c *Controller) help(u *state.User, edit bool) Reply {
	reply := c.menu(u, helpText, edit)
	reply.Markdown = true
	return reply
}

func (c *Controller) settings(u *state.User) Reply {
	return Reply{
		Text:          settingsText(u.Settings),
		Controls:      settingsControls,
		Markdown:      true,
		Edit:          true,
		DailyReminder: u.Settings.DailyReminder,
	}
}

func (c *Controller) fallback() Reply {
	return Reply{Text: fallbackText, Controls: mainMenuControls}
}
