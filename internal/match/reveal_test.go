package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"jokenpo/internal/game"
)

func TestRevealSettlesOnOpponentMove(t *testing.T) {
	view := newRecordingView()
	cfg := ConfigForUnit(5 * time.Millisecond)
	r := NewRevealer(cfg, clockwork.NewRealClock(), view)

	if err := r.Run(context.Background(), game.Paper, game.Scissors); err != nil {
		t.Fatalf("reveal: %v", err)
	}

	view.mu.Lock()
	frames := append([]RevealFrame(nil), view.frames...)
	view.mu.Unlock()

	if len(frames) < 2 {
		t.Fatalf("expected several frames, got %d", len(frames))
	}
	if frames[0].Countdown != cfg.RevealCountdown || frames[0].Settled {
		t.Fatalf("unexpected first frame %+v", frames[0])
	}
	last := frames[len(frames)-1]
	if !last.Settled || last.Shown != game.Scissors || last.PlayerMove != game.Paper || last.Countdown != 0 {
		t.Fatalf("unexpected last frame %+v", last)
	}
	for _, f := range frames[:len(frames)-1] {
		if f.Settled {
			t.Fatalf("settled before the countdown ended")
		}
		if f.Countdown < 1 || f.Countdown > cfg.RevealCountdown {
			t.Fatalf("countdown out of range: %+v", f)
		}
	}
}

func TestRevealCancelled(t *testing.T) {
	view := newRecordingView()
	r := NewRevealer(ConfigForUnit(time.Second), clockwork.NewRealClock(), view)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-view.frameCh
		cancel()
	}()

	err := r.Run(ctx, game.Rock, game.Paper)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	view.mu.Lock()
	defer view.mu.Unlock()
	for _, f := range view.frames {
		if f.Settled {
			t.Fatalf("cancelled reveal must not settle")
		}
	}
}
