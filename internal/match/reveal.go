package match

import (
	"context"

	"github.com/jonboulle/clockwork"

	"jokenpo/internal/game"
)

// Revealer plays the countdown: the opponent's hand shuffles through the
// catalog for RevealCountdown units, settles on the real move and holds
// for RevealHold before the round may be committed.
type Revealer struct {
	cfg   Config
	clock clockwork.Clock
	view  View
}

func NewRevealer(cfg Config, clock clockwork.Clock, view View) *Revealer {
	return &Revealer{cfg: cfg, clock: clock, view: view}
}

// Run blocks until the reveal is over or ctx is cancelled.
func (r *Revealer) Run(ctx context.Context, player, opponent game.Move) error {
	left := r.cfg.RevealCountdown
	if left > 0 {
		if err := r.countdown(ctx, player, left); err != nil {
			return err
		}
	}

	r.view.RevealFrame(RevealFrame{PlayerMove: player, Shown: opponent, Settled: true})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.clock.After(r.cfg.RevealHold):
		return nil
	}
}

func (r *Revealer) countdown(ctx context.Context, player game.Move, left int) error {
	tick := r.clock.NewTicker(r.cfg.TimeUnit)
	defer tick.Stop()

	shuffleEvery := r.cfg.ShuffleInterval
	if shuffleEvery <= 0 {
		shuffleEvery = r.cfg.TimeUnit
	}
	shuffle := r.clock.NewTicker(shuffleEvery)
	defer shuffle.Stop()

	shown := 0
	r.view.RevealFrame(RevealFrame{PlayerMove: player, Shown: game.Moves[shown], Countdown: left})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-shuffle.Chan():
			shown = (shown + 1) % game.MoveCount
			r.view.RevealFrame(RevealFrame{PlayerMove: player, Shown: game.Moves[shown], Countdown: left})
		case <-tick.Chan():
			left--
			if left <= 0 {
				return nil
			}
			r.view.RevealFrame(RevealFrame{PlayerMove: player, Shown: game.Moves[shown], Countdown: left})
		}
	}
}
