package round

import (
	"context"
	"sync"

	"github.com/younwookim/remnant/internal/domain/timeline"
)

// Harvest is one timeline collected from a round
type Harvest struct {
	OwnerID string
	Root    timeline.BranchID
	Remnant bool // the agent replayed a prior tree
	Died    bool // collected by the death hook
}

// Result is what a finished round hands to the next one
type Result struct {
	RoundID   int
	Timelines []Harvest
}

// Roots returns the harvested roots in harvest order
func (r Result) Roots() []timeline.BranchID {
	roots := make([]timeline.BranchID, 0, len(r.Timelines))
	for _, h := range r.Timelines {
		roots = append(roots, h.Root)
	}
	return roots
}

// Completion resolves once, when the round ends
type Completion struct {
	once   sync.Once
	done   chan struct{}
	result Result
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// resolve stores r and closes Done. Only the first call has an effect.
func (c *Completion) resolve(r Result) bool {
	resolved := false
	c.once.Do(func() {
		c.result = r
		close(c.done)
		resolved = true
	})
	return resolved
}

// Done is closed when the round has ended
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Result returns the harvest, ok is false while the round is running
func (c *Completion) Result() (Result, bool) {
	select {
	case <-c.done:
		return c.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the round ends or ctx is done
func (c *Completion) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
		return c.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
