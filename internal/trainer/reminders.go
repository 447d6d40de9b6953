package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/verbbot/internal/state"
)

// ReminderCandidates lists users with reminders on who have been inactive for
// threshold and were not reminded during the last threshold.
func (c *Controller) ReminderCandidates(ctx context.Context, threshold time.Duration) ([]int64, error) {
	ids, err := c.store.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	now := c.nowFn()
	var due []int64
	for _, id := range ids {
		u, err := c.store.Get(ctx, id)
		if errors.Is(err, state.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load user %d: %w", id, err)
		}
		if !u.Settings.DailyReminder {
			continue
		}
		if !u.InactiveFor(threshold, now) {
			continue
		}
		if !u.LastReminded.IsZero() && now.Sub(u.LastReminded) < threshold {
			continue
		}
		due = append(due, id)
	}
	return due, nil
}

// ReminderReply is the message sent to an inactive user
func (c *Controller) ReminderReply() Reply {
	return Reply{
		Text:          reminderText(c.reminderAfter),
		Controls:      mainMenuControls,
		DailyReminder: true,
	}
}

// MarkReminded records that a reminder was delivered now
func (c *Controller) MarkReminded(ctx context.Context, userID int64) error {
	unlock := c.locker.Lock(userID)
	defer unlock()

	u, err := c.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", userID, err)
	}
	u.LastReminded = c.nowFn()
	return c.store.Put(ctx, u)
}

// Expired is a speed round closed by SweepExpiredSpeed
type Expired struct {
	UserID int64
	Reply  Reply
}

// SweepExpiredSpeed ends speed rounds whose deadline passed more than grace
// ago and returns their summaries. Rounds inside the grace period are left
// for the user's next answer to close.
func (c *Controller) SweepExpiredSpeed(ctx context.Context, grace time.Duration) ([]Expired, error) {
	ids, err := c.store.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var swept []Expired
	for _, id := range ids {
		reply, ok, err := c.sweepUser(ctx, id, grace)
		if err != nil {
			c.logger.Printf("sweep user %d: %v", id, err)
			continue
		}
		if ok {
			swept = append(swept, Expired{UserID: id, Reply: reply})
		}
	}
	return swept, nil
}

func (c *Controller) sweepUser(ctx context.Context, userID int64, grace time.Duration) (Reply, bool, error) {
	unlock := c.locker.Lock(userID)
	defer unlock()

	u, err := c.store.Get(ctx, userID)
	if err != nil {
		return Reply{}, false, err
	}

	round, ok := u.Session.(*state.Speed)
	if !ok || round.Verb == nil || !round.Expired(c.nowFn().Add(-grace)) {
		return Reply{}, false, nil
	}

	u.Reset()
	if err := c.store.Put(ctx, u); err != nil {
		return Reply{}, false, err
	}

	c.logger.Printf("speed round %s expired for user %d: %d/%d", round.RunID, userID, round.Correct, round.Total)
	reply := c.menu(u, speedTimeoutText(round), false)
	reply.Markdown = true
	return reply, true, nil
}
