package selector

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/verbbot/pkg/models"
)

// ErrEmptyPool is returned when no verb is eligible for a tier
var ErrEmptyPool = errors.New("no verbs available for tier")

// Source lists the verbs eligible for a tier
type Source interface {
	ByTier(tier int) []*models.Verb
}

// Pool is one shuffled pass over the eligible verbs
type Pool struct {
	Tier   int
	Verbs  []*models.Verb
	Cursor int
}

// Exhausted reports whether every verb of the pass has been served
func (p *Pool) Exhausted() bool {
	return p == nil || p.Cursor >= len(p.Verbs)
}

// last returns the most recently served verb, or nil
func (p *Pool) last() *models.Verb {
	if p == nil || p.Cursor == 0 || p.Cursor > len(p.Verbs) {
		return nil
	}
	return p.Verbs[p.Cursor-1]
}

// Selector hands out verbs without repeats until a pool runs out
type Selector struct {
	source Source

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a selector seeded from the clock
func New(source Source) *Selector {
	return NewWithSource(source, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a selector with a fixed random source
func NewWithSource(source Source, src rand.Source) *Selector {
	return &Selector{
		source: source,
		rnd:    rand.New(src),
	}
}

// BuildPool shuffles every verb of the tier into a new pool
func (s *Selector) BuildPool(tier int) (*Pool, error) {
	verbs := s.source.ByTier(tier)
	if len(verbs) == 0 {
		return nil, fmt.Errorf("tier %d: %w", tier, ErrEmptyPool)
	}

	s.mu.Lock()
	s.rnd.Shuffle(len(verbs), func(i, j int) {
		verbs[i], verbs[j] = verbs[j], verbs[i]
	})
	s.mu.Unlock()

	return &Pool{Tier: tier, Verbs: verbs}, nil
}

// Next serves the next verb of the pool, rebuilding it for tier when it is
// missing or exhausted. The returned pool replaces the one passed in.
func (s *Selector) Next(pool *Pool, tier int) (*models.Verb, *Pool, error) {
	if pool.Exhausted() {
		previous := pool.last()

		fresh, err := s.BuildPool(tier)
		if err != nil {
			return nil, pool, err
		}
		// Keep the last verb of the old pass from opening the new one
		if previous != nil && len(fresh.Verbs) > 1 && fresh.Verbs[0] == previous {
			fresh.Verbs[0], fresh.Verbs[len(fresh.Verbs)-1] = fresh.Verbs[len(fresh.Verbs)-1], fresh.Verbs[0]
		}
		pool = fresh
	}

	verb := pool.Verbs[pool.Cursor]
	pool.Cursor++
	return verb, pool, nil
}

// Coin flips the shared random source
func (s *Selector) Coin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(2) == 0
}
