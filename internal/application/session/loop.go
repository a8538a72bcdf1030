package session

import (
	"context"
	"fmt"
	"time"

	"github.com/younwookim/remnant/internal/application/round"
)

const commandBuffer = 64

type command struct {
	fn    func(*Session) error
	reply chan error
}

// Enqueue schedules fn for the start of the next tick without waiting.
// It reports false when the queue is full.
func (s *Session) Enqueue(fn func(*Session)) bool {
	select {
	case s.commands <- command{fn: func(s *Session) error { fn(s); return nil }}:
		return true
	default:
		return false
	}
}

// Do runs fn on the tick goroutine and returns its error
func (s *Session) Do(ctx context.Context, fn func(*Session) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain runs every queued command
func (s *Session) drain() {
	for {
		select {
		case cmd := <-s.commands:
			err := cmd.fn(s)
			if cmd.reply != nil {
				cmd.reply <- err
			}
		default:
			return
		}
	}
}

// Run ticks the session at the configured rate until ctx is done
func (s *Session) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.TickRate)
	dt := 1 / float64(s.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(dt)
		}
	}
}

// RunRounds plays n rounds back to back. It must be called from another
// goroutine than the one ticking the session.
func (s *Session) RunRounds(ctx context.Context, n int) ([]round.Result, error) {
	results := make([]round.Result, 0, n)
	for i := 0; i < n; i++ {
		var done *round.Completion
		err := s.Do(ctx, func(s *Session) error {
			var err error
			done, err = s.DoRound()
			return err
		})
		if err != nil {
			return results, fmt.Errorf("failed to start round: %w", err)
		}
		res, err := done.Wait(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
