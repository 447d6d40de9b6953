package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/verbbot/pkg/models"
)

// ErrInvariantViolation marks a session that claims an active mode but has no verb
var ErrInvariantViolation = errors.New("session invariant violated")

// Session is the per-user training state. Each mode has its own type that
// carries only the fields valid for it.
type Session interface {
	Mode() models.Mode
	ActiveVerb() *models.Verb
	isSession()
}

// Idle means no training is running
type Idle struct{}

// Forms asks for the past and participle of Verb
type Forms struct {
	Verb *models.Verb
}

// Translation asks for the translation of Verb
type Translation struct {
	Verb *models.Verb
}

// Mix alternates between the forms and translation drills
type Mix struct {
	Verb    *models.Verb
	Submode models.Mode // ModeForms or ModeTranslation
}

// Speed is a timed round of forms questions
type Speed struct {
	RunID     string
	Verb      *models.Verb
	Correct   int
	Total     int
	StartedAt time.Time
	Deadline  time.Time
	Missed    []*models.Verb
}

// Repeat reviews the head of the mistake ledger
type Repeat struct {
	Verb *models.Verb
	Rule models.Mode // Answer rule of the mistake being reviewed
}

func (Idle) Mode() models.Mode        { return models.ModeIdle }
func (Forms) Mode() models.Mode       { return models.ModeForms }
func (Translation) Mode() models.Mode { return models.ModeTranslation }
func (Mix) Mode() models.Mode         { return models.ModeMix }
func (*Speed) Mode() models.Mode      { return models.ModeSpeed }
func (Repeat) Mode() models.Mode      { return models.ModeRepeat }

func (Idle) ActiveVerb() *models.Verb          { return nil }
func (s Forms) ActiveVerb() *models.Verb       { return s.Verb }
func (s Translation) ActiveVerb() *models.Verb { return s.Verb }
func (s Mix) ActiveVerb() *models.Verb         { return s.Verb }
func (s *Speed) ActiveVerb() *models.Verb      { return s.Verb }
func (s Repeat) ActiveVerb() *models.Verb      { return s.Verb }

func (Idle) isSession()        {}
func (Forms) isSession()       {}
func (Translation) isSession() {}
func (Mix) isSession()         {}
func (*Speed) isSession()      {}
func (Repeat) isSession()      {}

// Expired reports whether the round's deadline has passed
func (s *Speed) Expired(now time.Time) bool {
	return !now.Before(s.Deadline)
}

// Remaining returns the whole seconds left in the round
func (s *Speed) Remaining(now time.Time) int {
	left := s.Deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left / time.Second)
}

// Validate checks that an active session has a verb and a usable answer rule
func Validate(s Session) error {
	if s == nil {
		return fmt.Errorf("nil session: %w", ErrInvariantViolation)
	}
	if s.Mode() == models.ModeIdle {
		return nil
	}
	if s.ActiveVerb() == nil {
		return fmt.Errorf("%s session without a verb: %w", s.Mode(), ErrInvariantViolation)
	}
	switch v := s.(type) {
	case Mix:
		if !v.Submode.IsDrill() {
			return fmt.Errorf("mix session with submode %q: %w", v.Submode, ErrInvariantViolation)
		}
	case Repeat:
		if !v.Rule.IsDrill() {
			return fmt.Errorf("repeat session with rule %q: %w", v.Rule, ErrInvariantViolation)
		}
	}
	return nil
}

func cloneSession(s Session) Session {
	if sp, ok := s.(*Speed); ok {
		cp := *sp
		cp.Missed = append([]*models.Verb(nil), sp.Missed...)
		return &cp
	}
	if s == nil {
		return Idle{}
	}
	return s
}
