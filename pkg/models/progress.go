package models

import "time"

// Progress tracks a user's aggregate answer counters
type Progress struct {
	Correct       int       `json:"correct"`
	Wrong         int       `json:"wrong"`
	BestStreak    int       `json:"best_streak"`
	CurrentStreak int       `json:"current_streak"` // Consecutive correct answers
	LastActivity  time.Time `json:"last_activity"`
}

// Record applies one evaluated answer. It is the only way the counters change.
func (p *Progress) Record(correct bool, now time.Time) {
	if correct {
		p.Correct++
		p.CurrentStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
	} else {
		p.Wrong++
		p.CurrentStreak = 0
	}
	p.LastActivity = now
}

// Touch marks activity that does not count toward the counters
func (p *Progress) Touch(now time.Time) {
	p.LastActivity = now
}
