// Package rotator picks bank questions while avoiding recent repeats for the
// same (skill, level).
package rotator

import (
	"math/rand/v2"
	"sync"

	"github.com/remaimber-it/interviewer/internal/domain/questionbank"
	"github.com/remaimber-it/interviewer/internal/metrics"
)

const (
	// DefaultWindow is the number of recent picks that count as "recently used".
	DefaultWindow = 10
	// maxStreak caps how many times in a row one question may be picked
	// while an alternative exists.
	maxStreak = 4
)

// Key identifies one usage history.
type Key struct {
	Skill string
	Level questionbank.Level
}

// Source supplies the questions for a (skill, level).
type Source interface {
	Questions(skill string, level questionbank.Level) []string
}

// Rotator owns the per-(skill, level) usage history. One instance is shared
// by all requests of a process; it is safe for concurrent use.
type Rotator struct {
	mu      sync.Mutex
	history map[Key][]int
	window  int
	intn    func(n int) int
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithWindow sets the lookback window size.
func WithWindow(n int) Option {
	return func(r *Rotator) {
		if n > 0 {
			r.window = n
		}
	}
}

// WithRand replaces the uniform index source. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(r *Rotator) { r.intn = intn }
}

// WithHistory injects the history map, e.g. to pre-seed it in tests.
func WithHistory(h map[Key][]int) Option {
	return func(r *Rotator) {
		if h != nil {
			r.history = h
		}
	}
}

// New returns a Rotator with an empty history.
func New(opts ...Option) *Rotator {
	r := &Rotator{
		history: make(map[Key][]int),
		window:  DefaultWindow,
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns a question for (skill, level) other than exclude, preferring
// questions that do not dominate the recent history, and records the pick.
//
// It returns false when the source has no question for the pair. When the
// only question equals exclude it is returned anyway: a singleton bank
// cannot honour the exclusion.
func (r *Rotator) Next(src Source, skill string, level questionbank.Level, exclude string) (string, bool) {
	questions := src.Questions(skill, level)
	if len(questions) == 0 {
		return "", false
	}

	candidates := make([]int, 0, len(questions))
	for i, q := range questions {
		if exclude != "" && q == exclude {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return questions[0], true
	}

	key := Key{Skill: skill, Level: level}

	r.mu.Lock()
	defer r.mu.Unlock()

	hist := r.history[key]
	eligible := r.eligible(candidates, hist)
	if len(eligible) == 0 {
		if len(hist) >= r.window {
			hist = nil
			metrics.RotationResetsTotal.Inc()
		}
		eligible = candidates
	}

	pick := eligible[r.intn(len(eligible))]
	hist = append(hist, pick)
	if len(hist) > r.window {
		hist = append([]int(nil), hist[len(hist)-r.window:]...)
	}
	r.history[key] = hist

	return questions[pick], true
}

// eligible filters out candidates that filled the whole recent window, and
// the candidate on a maxStreak run when another one is left.
func (r *Rotator) eligible(candidates, hist []int) []int {
	recent := hist
	if len(recent) > r.window {
		recent = recent[len(recent)-r.window:]
	}

	uses := make(map[int]int, len(recent))
	for _, idx := range recent {
		uses[idx]++
	}

	streakIdx, streak := -1, 0
	for i := len(hist) - 1; i >= 0 && hist[i] == hist[len(hist)-1]; i-- {
		streakIdx = hist[i]
		streak++
	}

	out := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		if uses[idx] >= r.window {
			continue
		}
		if streak >= maxStreak && idx == streakIdx && len(candidates) > 1 {
			continue
		}
		out = append(out, idx)
	}
	return out
}

// History returns a copy of the recorded picks for (skill, level).
func (r *Rotator) History(skill string, level questionbank.Level) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.history[Key{Skill: skill, Level: level}]...)
}

// Reset forgets every recorded pick.
func (r *Rotator) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.history)
}
