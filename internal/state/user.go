package state

import (
	"time"

	"github.com/example/verbbot/internal/selector"
	"github.com/example/verbbot/pkg/models"
)

// User is everything kept for one transport user id
type User struct {
	ID             int64
	Session        Session
	Ledger         Ledger
	Progress       models.Progress
	Settings       models.Settings
	Pool           *selector.Pool
	LastMixSubmode models.Mode // Drill of the last Mix question, empty if none
	CreatedAt      time.Time
	LastReminded   time.Time
}

// NewUser creates the record for a first interaction
func NewUser(id int64, now time.Time) *User {
	return &User{
		ID:        id,
		Session:   Idle{},
		Settings:  models.DefaultSettings(),
		CreatedAt: now,
	}
}

// Reset returns the user to the idle state
func (u *User) Reset() {
	u.Session = Idle{}
}

// LastSeen is the last answer time, or the creation time for users who never answered
func (u *User) LastSeen() time.Time {
	if u.Progress.LastActivity.IsZero() {
		return u.CreatedAt
	}
	return u.Progress.LastActivity
}

// InactiveFor reports whether the user has not been seen during the last threshold
func (u *User) InactiveFor(threshold time.Duration, now time.Time) bool {
	return now.Sub(u.LastSeen()) >= threshold
}

// Clone returns a copy that shares verbs but no mutable state
func (u *User) Clone() *User {
	cp := *u
	cp.Session = cloneSession(u.Session)
	cp.Ledger = u.Ledger.clone()
	if u.Pool != nil {
		pool := *u.Pool
		pool.Verbs = append([]*models.Verb(nil), u.Pool.Verbs...)
		cp.Pool = &pool
	}
	return &cp
}
