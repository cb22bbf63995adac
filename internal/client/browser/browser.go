// Package browser implements the drill-down over recognition results:
// candidate list, then a candidate's illustrations, then one illustration.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/merrycards/merry/internal/client/models"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrOutOfRange        = errors.New("index out of range")
	ErrClosed            = errors.New("browser closed")
)

type State int

const (
	StateList State = iota
	StateCardSelected
	StateIllustrationDetail
)

func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StateCardSelected:
		return "card"
	case StateIllustrationDetail:
		return "illustration"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Claimer adds an illustration to the user's collection.
type Claimer interface {
	Claim(ctx context.Context, code string) error
}

// Browser is safe for concurrent use; callers normally drive it from a
// single REPL loop.
type Browser struct {
	claimer Claimer

	mu           sync.Mutex
	candidates   []models.Candidate
	state        State
	card         int
	illustration int
	closed       bool
}

// New takes ownership of candidates and orders them by descending
// similarity, keeping response order for ties.
func New(candidates []models.Candidate, claimer Claimer) *Browser {
	cs := append([]models.Candidate(nil), candidates...)
	models.SortBySimilarity(cs)
	return &Browser{claimer: claimer, candidates: cs, state: StateList, card: -1, illustration: -1}
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Candidates returns the ordered result list.
func (b *Browser) Candidates() []models.Candidate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Candidate(nil), b.candidates...)
}

// Current returns the selected candidate in StateCardSelected and
// StateIllustrationDetail.
func (b *Browser) Current() (models.Candidate, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.state == StateList {
		return models.Candidate{}, false
	}
	return b.candidates[b.card], true
}

// CurrentIllustration returns the illustration open in StateIllustrationDetail.
func (b *Browser) CurrentIllustration() (models.Illustration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.state != StateIllustrationDetail {
		return models.Illustration{}, false
	}
	return b.candidates[b.card].Illustrations[b.illustration], true
}

func (b *Browser) SelectCandidate(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.expect(StateList); err != nil {
		return err
	}
	if i < 0 || i >= len(b.candidates) {
		return fmt.Errorf("candidate %d of %d: %w", i+1, len(b.candidates), ErrOutOfRange)
	}

	b.card = i
	b.state = StateCardSelected
	return nil
}

func (b *Browser) SelectIllustration(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.expect(StateCardSelected); err != nil {
		return err
	}
	ils := b.candidates[b.card].Illustrations
	if i < 0 || i >= len(ils) {
		return fmt.Errorf("illustration %d of %d: %w", i+1, len(ils), ErrOutOfRange)
	}

	b.illustration = i
	b.state = StateIllustrationDetail
	return nil
}

// Back moves one level up. In StateList there is nothing to go back to and
// it reports false.
func (b *Browser) Back() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false, ErrClosed
	}

	switch b.state {
	case StateIllustrationDetail:
		b.illustration = -1
		b.state = StateCardSelected
	case StateCardSelected:
		b.card = -1
		b.state = StateList
	default:
		return false, nil
	}
	return true, nil
}

// Close discards all drill-down state. Further calls return ErrClosed.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.candidates = nil
	b.card, b.illustration = -1, -1
	b.state = StateList
}

// Claim adds the open illustration to the collection. On failure the
// browser stays where it was.
func (b *Browser) Claim(ctx context.Context) (models.Illustration, error) {
	b.mu.Lock()
	if err := b.expect(StateIllustrationDetail); err != nil {
		b.mu.Unlock()
		return models.Illustration{}, err
	}
	il := b.candidates[b.card].Illustrations[b.illustration]
	b.mu.Unlock()

	if err := b.claimer.Claim(ctx, il.Code); err != nil {
		return models.Illustration{}, err
	}
	return il, nil
}

func (b *Browser) expect(s State) error {
	if b.closed {
		return ErrClosed
	}
	if b.state != s {
		return fmt.Errorf("%w: in %s, want %s", ErrInvalidTransition, b.state, s)
	}
	return nil
}
