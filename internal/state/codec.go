package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/verbbot/internal/selector"
	"github.com/example/verbbot/pkg/models"
)

// VerbLookup resolves an infinitive to the catalogue's shared verb
type VerbLookup interface {
	Lookup(infinitive string) (*models.Verb, bool)
}

// snapshot is the stored form of a User. Verbs are kept by infinitive.
type snapshot struct {
	ID             int64           `json:"id"`
	Session        sessionSnapshot `json:"session"`
	Mistakes       []mistakeRecord `json:"mistakes,omitempty"`
	Progress       models.Progress `json:"progress"`
	Settings       models.Settings `json:"settings"`
	Pool           *poolSnapshot   `json:"pool,omitempty"`
	LastMixSubmode models.Mode     `json:"last_mix_submode,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	LastReminded   time.Time       `json:"last_reminded,omitempty"`
}

type sessionSnapshot struct {
	Mode      models.Mode `json:"mode"`
	Verb      string      `json:"verb,omitempty"`
	Submode   models.Mode `json:"submode,omitempty"`
	RunID     string      `json:"run_id,omitempty"`
	Correct   int         `json:"correct,omitempty"`
	Total     int         `json:"total,omitempty"`
	StartedAt time.Time   `json:"started_at,omitempty"`
	Deadline  time.Time   `json:"deadline,omitempty"`
	Missed    []string    `json:"missed,omitempty"`
}

type mistakeRecord struct {
	Verb string      `json:"verb"`
	Mode models.Mode `json:"mode"`
}

type poolSnapshot struct {
	Tier   int      `json:"tier"`
	Verbs  []string `json:"verbs"`
	Cursor int      `json:"cursor"`
}

// Encode serializes a user record
func Encode(u *User) ([]byte, error) {
	snap := snapshot{
		ID:             u.ID,
		Session:        encodeSession(u.Session),
		Progress:       u.Progress,
		Settings:       u.Settings,
		LastMixSubmode: u.LastMixSubmode,
		CreatedAt:      u.CreatedAt,
		LastReminded:   u.LastReminded,
	}
	for _, e := range u.Ledger.entries {
		snap.Mistakes = append(snap.Mistakes, mistakeRecord{Verb: e.Verb.Infinitive, Mode: e.Mode})
	}
	if u.Pool != nil {
		snap.Pool = &poolSnapshot{
			Tier:   u.Pool.Tier,
			Verbs:  infinitives(u.Pool.Verbs),
			Cursor: u.Pool.Cursor,
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode user %d: %w", u.ID, err)
	}
	return data, nil
}

// Decode restores a user record. Verbs no longer in the catalogue are
// dropped, and a session whose verb is gone falls back to Idle.
func Decode(data []byte, lookup VerbLookup) (*User, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode user state: %w", err)
	}

	u := &User{
		ID:             snap.ID,
		Session:        decodeSession(snap.Session, lookup),
		Progress:       snap.Progress,
		Settings:       snap.Settings,
		LastMixSubmode: snap.LastMixSubmode,
		CreatedAt:      snap.CreatedAt,
		LastReminded:   snap.LastReminded,
	}
	u.Settings.Tier = models.ClampTier(u.Settings.Tier)

	for _, m := range snap.Mistakes {
		if verb, ok := lookup.Lookup(m.Verb); ok {
			u.Ledger.Add(verb, m.Mode)
		}
	}

	if snap.Pool != nil {
		pool := &selector.Pool{Tier: snap.Pool.Tier, Cursor: snap.Pool.Cursor}
		for i, inf := range snap.Pool.Verbs {
			verb, ok := lookup.Lookup(inf)
			if !ok {
				if i < snap.Pool.Cursor {
					pool.Cursor--
				}
				continue
			}
			pool.Verbs = append(pool.Verbs, verb)
		}
		if len(pool.Verbs) > 0 {
			u.Pool = pool
		}
	}

	return u, nil
}

func encodeSession(s Session) sessionSnapshot {
	snap := sessionSnapshot{Mode: models.ModeIdle}
	if s == nil {
		return snap
	}
	snap.Mode = s.Mode()
	if verb := s.ActiveVerb(); verb != nil {
		snap.Verb = verb.Infinitive
	}

	switch v := s.(type) {
	case Mix:
		snap.Submode = v.Submode
	case Repeat:
		snap.Submode = v.Rule
	case *Speed:
		snap.RunID = v.RunID
		snap.Correct = v.Correct
		snap.Total = v.Total
		snap.StartedAt = v.StartedAt
		snap.Deadline = v.Deadline
		snap.Missed = infinitives(v.Missed)
	}
	return snap
}

func decodeSession(snap sessionSnapshot, lookup VerbLookup) Session {
	verb, ok := lookup.Lookup(snap.Verb)
	if !ok {
		return Idle{}
	}

	switch snap.Mode {
	case models.ModeForms:
		return Forms{Verb: verb}
	case models.ModeTranslation:
		return Translation{Verb: verb}
	case models.ModeMix:
		return Mix{Verb: verb, Submode: snap.Submode}
	case models.ModeRepeat:
		return Repeat{Verb: verb, Rule: snap.Submode}
	case models.ModeSpeed:
		sp := &Speed{
			RunID:     snap.RunID,
			Verb:      verb,
			Correct:   snap.Correct,
			Total:     snap.Total,
			StartedAt: snap.StartedAt,
			Deadline:  snap.Deadline,
		}
		for _, inf := range snap.Missed {
			if missed, ok := lookup.Lookup(inf); ok {
				sp.Missed = append(sp.Missed, missed)
			}
		}
		return sp
	}
	return Idle{}
}

func infinitives(verbs []*models.Verb) []string {
	out := make([]string, 0, len(verbs))
	for _, v := range verbs {
		out = append(out, v.Infinitive)
	}
	return out
}
