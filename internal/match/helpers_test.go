package match

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"jokenpo/internal/arbiter"
	"jokenpo/internal/domain"
)

const waitTimeout = 2 * time.Second

type playFunc func(ctx context.Context, call int, req arbiter.PlayRequest) (*arbiter.PlayResponse, error)

type fakeArbiter struct {
	mu   sync.Mutex
	reqs []arbiter.PlayRequest
	play playFunc
}

func (f *fakeArbiter) Play(ctx context.Context, req arbiter.PlayRequest) (*arbiter.PlayResponse, error) {
	f.mu.Lock()
	call := len(f.reqs)
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.play(ctx, call, req)
}

func (f *fakeArbiter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reqs)
}

func (f *fakeArbiter) requests() []arbiter.PlayRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]arbiter.PlayRequest(nil), f.reqs...)
}

func answer(opponent, verdict string) playFunc {
	return func(context.Context, int, arbiter.PlayRequest) (*arbiter.PlayResponse, error) {
		return &arbiter.PlayResponse{OpponentMove: opponent, Verdict: verdict}, nil
	}
}

type recordingView struct {
	mu      sync.Mutex
	busy    []bool
	notices []Notice
	frames  []RevealFrame
	resets  []Snapshot
	stats   []domain.LifetimeStats

	rounds   chan RoundUpdate
	finals   chan FinalReport
	noticeCh chan Notice
	frameCh  chan RevealFrame
}

func newRecordingView() *recordingView {
	return &recordingView{
		rounds:   make(chan RoundUpdate, 64),
		finals:   make(chan FinalReport, 8),
		noticeCh: make(chan Notice, 64),
		frameCh:  make(chan RevealFrame, 256),
	}
}

func (v *recordingView) Busy(b bool) {
	v.mu.Lock()
	v.busy = append(v.busy, b)
	v.mu.Unlock()
}

func (v *recordingView) Notify(n Notice) {
	v.mu.Lock()
	v.notices = append(v.notices, n)
	v.mu.Unlock()
	select {
	case v.noticeCh <- n:
	default:
	}
}

func (v *recordingView) ClearNotices() {}

func (v *recordingView) RevealFrame(f RevealFrame) {
	v.mu.Lock()
	v.frames = append(v.frames, f)
	v.mu.Unlock()
	select {
	case v.frameCh <- f:
	default:
	}
}

func (v *recordingView) RoundCommitted(u RoundUpdate) {
	select {
	case v.rounds <- u:
	default:
	}
}

func (v *recordingView) MatchFinished(r FinalReport) {
	select {
	case v.finals <- r:
	default:
	}
}

func (v *recordingView) SessionReset(s Snapshot) {
	v.mu.Lock()
	v.resets = append(v.resets, s)
	v.mu.Unlock()
}

func (v *recordingView) StatsChanged(s domain.LifetimeStats) {
	v.mu.Lock()
	v.stats = append(v.stats, s)
	v.mu.Unlock()
}

func (v *recordingView) noticesAt(level NoticeLevel) []Notice {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []Notice
	for _, n := range v.notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

func (v *recordingView) lastBusy() (bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.busy) == 0 {
		return false, false
	}
	return v.busy[len(v.busy)-1], true
}

func waitRound(t *testing.T, v *recordingView) RoundUpdate {
	t.Helper()
	select {
	case u := <-v.rounds:
		return u
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for a committed round")
	}
	return RoundUpdate{}
}

func waitFinal(t *testing.T, v *recordingView) FinalReport {
	t.Helper()
	select {
	case r := <-v.finals:
		return r
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for the final report")
	}
	return FinalReport{}
}

func waitNotice(t *testing.T, v *recordingView, level NoticeLevel) Notice {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case n := <-v.noticeCh:
			if n.Level == level {
				return n
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a %s notice", level)
			return Notice{}
		}
	}
}

// recordingClock records the delays handed to AfterFunc.
type recordingClock struct {
	clockwork.Clock
	mu     sync.Mutex
	delays []time.Duration
}

func (c *recordingClock) AfterFunc(d time.Duration, f func()) clockwork.Timer {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()
	return c.Clock.AfterFunc(d, f)
}

func (c *recordingClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

func testConfig() Config {
	cfg := ConfigForUnit(time.Millisecond)
	cfg.RequestTimeout = time.Second
	return cfg
}

// startCoordinator runs c until the test ends.
func startCoordinator(t *testing.T, c *Coordinator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-c.Done()
	})
}
