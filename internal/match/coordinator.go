package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"jokenpo/internal/arbiter"
	"jokenpo/internal/game"
	"jokenpo/internal/logger"
	"jokenpo/internal/metrics"
)

var (
	ErrRoundInFlight = errors.New("a round is already in progress")
	ErrMatchFinished = errors.New("match is finished")
	ErrClosed        = errors.New("session closed")
)

const (
	slowMessage    = "The connection is very slow. Retrying..."
	offlineMessage = "You are offline. Some features may be unavailable."
)

// Arbiter resolves a round remotely.
type Arbiter interface {
	Play(ctx context.Context, req arbiter.PlayRequest) (*arbiter.PlayResponse, error)
}

// Deps are the collaborators of a Coordinator. Only Arbiter is required.
type Deps struct {
	PlayerID string
	Arbiter  Arbiter
	Prober   Prober
	Stats    StatsStore
	View     View
	Clock    clockwork.Clock
	Pools    *game.OutcomePools
	Logger   *slog.Logger
}

// commands, answered on reply
type submitCmd struct {
	move  game.Move
	reply chan error
}

type resetCmd struct {
	reply chan struct{}
}

type snapshotCmd struct {
	reply chan Snapshot
}

type musicCmd struct {
	enabled bool
	reply   chan error
}

// events from goroutines the loop started; stale ones carry an old epoch
type attemptResult struct {
	epoch   uint64
	attempt int
	resp    *arbiter.PlayResponse
	err     error
}

type retryDue struct {
	epoch   uint64
	attempt int
}

type revealDone struct {
	epoch uint64
}

type completionDue struct {
	epoch uint64
}

type pendingRound struct {
	player   game.Move
	opponent game.Move
	verdict  string
}

// Coordinator drives the round lifecycle of one session. All state is
// owned by the Run goroutine; the exported methods talk to it through
// the inbox.
type Coordinator struct {
	playerID string
	cfg      Config
	arbiter  Arbiter
	prober   Prober
	view     View
	clock    clockwork.Clock
	log      *slog.Logger

	session    *Session
	controller *Controller
	revealer   *Revealer

	inbox chan any
	done  chan struct{}

	round   RoundState
	epoch   uint64
	attempt int
	pending pendingRound

	callCancel      context.CancelFunc
	retryTimer      clockwork.Timer
	revealCancel    context.CancelFunc
	completionTimer clockwork.Timer
}

func NewCoordinator(cfg Config, deps Deps) *Coordinator {
	if deps.View == nil {
		deps.View = NopView{}
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Pools == nil {
		deps.Pools = game.NewOutcomePools(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logger.With("component", "match")
	}
	log := deps.Logger.With("player_id", deps.PlayerID)

	session := NewSession(cfg)
	return &Coordinator{
		playerID:   deps.PlayerID,
		cfg:        cfg,
		arbiter:    deps.Arbiter,
		prober:     deps.Prober,
		view:       deps.View,
		clock:      deps.Clock,
		log:        log,
		session:    session,
		controller: NewController(deps.PlayerID, cfg, session, deps.Pools, deps.Stats, deps.View, log),
		revealer:   NewRevealer(cfg, deps.Clock, deps.View),
		inbox:      make(chan any, 32),
		done:       make(chan struct{}),
	}
}

// Run processes commands until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	defer close(c.done)
	defer c.cancelPending()

	if c.prober != nil {
		go RunPreflight(ctx, c.cfg, c.prober, c.clock, c.view, c.log)
	}
	c.controller.LoadStats(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.inbox:
			c.handle(ctx, ev)
		}
	}
}

// Done is closed once Run has returned.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Submit starts a round with move. It returns once the round is admitted,
// not when it is committed.
func (c *Coordinator) Submit(ctx context.Context, move game.Move) error {
	reply := make(chan error, 1)
	if err := c.send(ctx, submitCmd{move: move, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Reset abandons any round in flight and starts a new match.
func (c *Coordinator) Reset(ctx context.Context) error {
	reply := make(chan struct{})
	if err := c.send(ctx, resetCmd{reply: reply}); err != nil {
		return err
	}
	select {
	case <-reply:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Coordinator) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := c.send(ctx, snapshotCmd{reply: reply}); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-c.done:
		return Snapshot{}, ErrClosed
	}
}

func (c *Coordinator) SetMusicEnabled(ctx context.Context, enabled bool) error {
	reply := make(chan error, 1)
	if err := c.send(ctx, musicCmd{enabled: enabled, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Coordinator) send(ctx context.Context, cmd any) error {
	select {
	case c.inbox <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// post is used by timers and worker goroutines.
func (c *Coordinator) post(ev any) {
	select {
	case c.inbox <- ev:
	case <-c.done:
	}
}

func (c *Coordinator) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case submitCmd:
		ev.reply <- c.handleSubmit(ctx, ev.move)
	case resetCmd:
		c.handleReset()
		close(ev.reply)
	case snapshotCmd:
		ev.reply <- c.snapshot()
	case musicCmd:
		ev.reply <- c.controller.SetMusicEnabled(ctx, ev.enabled)
	case attemptResult:
		c.handleAttemptResult(ctx, ev)
	case retryDue:
		c.handleRetryDue(ctx, ev)
	case revealDone:
		c.handleRevealDone(ev)
	case completionDue:
		c.handleCompletionDue(ctx, ev)
	default:
		c.log.Warn("unexpected inbox message", "type", fmt.Sprintf("%T", ev))
	}
}

func (c *Coordinator) handleSubmit(ctx context.Context, move game.Move) error {
	if c.session.State == MatchFinished || c.session.Score.IsMatchComplete() {
		return ErrMatchFinished
	}
	if c.round != RoundIdle || c.session.State != MatchAwaitingInput {
		return ErrRoundInFlight
	}
	if !move.Valid() {
		return fmt.Errorf("%w: index %d", game.ErrUnknownMove, move.Index())
	}

	c.round = RoundSubmitting
	c.session.State = MatchInProgress
	c.pending = pendingRound{player: move}
	c.attempt = 0
	c.view.Busy(true)
	c.startAttempt(ctx)
	return nil
}

func (c *Coordinator) startAttempt(ctx context.Context) {
	req := arbiter.PlayRequest{
		PlayerMove:         c.pending.player.Index(),
		PreviousPlayerMove: c.session.PreviousIndex(),
	}
	callCtx, cancel := clockwork.WithTimeout(ctx, c.clock, c.cfg.RequestTimeout)
	c.callCancel = cancel
	epoch, attempt := c.epoch, c.attempt

	c.log.Debug("arbitration attempt", "move", c.pending.player.Token(), "attempt", attempt)
	go func() {
		defer cancel()
		resp, err := c.arbiter.Play(callCtx, req)
		c.post(attemptResult{epoch: epoch, attempt: attempt, resp: resp, err: err})
	}()
}

func (c *Coordinator) handleAttemptResult(ctx context.Context, ev attemptResult) {
	if ev.epoch != c.epoch || ev.attempt != c.attempt || c.round != RoundSubmitting {
		return
	}
	c.callCancel = nil

	if ev.err != nil {
		c.handleAttemptError(ev.err)
		return
	}
	if ev.resp == nil {
		c.fail(arbiter.ErrMalformedResponse)
		return
	}
	opponent, err := game.ParseMove(ev.resp.OpponentMove)
	if err != nil {
		c.fail(fmt.Errorf("%w: %v", arbiter.ErrMalformedResponse, err))
		return
	}

	c.pending.opponent = opponent
	c.pending.verdict = ev.resp.Verdict
	c.round = RoundAwaitingReveal
	c.startReveal(ctx)
}

func (c *Coordinator) handleAttemptError(err error) {
	if !isTransient(err) || c.attempt >= c.cfg.MaxRetries {
		c.fail(err)
		return
	}

	c.attempt++
	metrics.ArbiterRetries.Inc()
	msg := slowMessage
	if errors.Is(err, arbiter.ErrOffline) {
		msg = offlineMessage
	}
	c.view.Notify(Notice{Level: NoticeWarning, Message: msg, TTL: c.cfg.NoticeTTL})

	delay := c.cfg.Backoff(c.attempt)
	c.log.Info("arbitration retry scheduled", "attempt", c.attempt, "delay", delay, "error", err)
	epoch, attempt := c.epoch, c.attempt
	c.retryTimer = c.clock.AfterFunc(delay, func() {
		c.post(retryDue{epoch: epoch, attempt: attempt})
	})
}

func (c *Coordinator) handleRetryDue(ctx context.Context, ev retryDue) {
	if ev.epoch != c.epoch || ev.attempt != c.attempt || c.round != RoundSubmitting {
		return
	}
	c.retryTimer = nil
	c.startAttempt(ctx)
}

// fail abandons the round without touching the score or history.
func (c *Coordinator) fail(err error) {
	c.round = RoundErrorRecovery
	c.log.Warn("round failed", "attempt", c.attempt, "error", err)
	metrics.RoundsFailed.WithLabelValues(failureReason(err)).Inc()
	c.view.Notify(Notice{Level: NoticeError, Message: failureMessage(err), TTL: c.cfg.ErrorNoticeTTL})

	c.pending = pendingRound{}
	c.attempt = 0
	c.round = RoundIdle
	c.session.State = MatchAwaitingInput
	c.view.Busy(false)
}

func (c *Coordinator) startReveal(ctx context.Context) {
	revealCtx, cancel := context.WithCancel(ctx)
	c.revealCancel = cancel
	epoch := c.epoch
	p := c.pending

	go func() {
		if err := c.revealer.Run(revealCtx, p.player, p.opponent); err != nil {
			return
		}
		c.post(revealDone{epoch: epoch})
	}()
}

func (c *Coordinator) handleRevealDone(ev revealDone) {
	if ev.epoch != c.epoch || c.round != RoundAwaitingReveal {
		return
	}
	c.revealCancel()
	c.revealCancel = nil
	c.commit()
}

// commit is the single point where a round reaches the score and history.
func (c *Coordinator) commit() {
	c.round = RoundCommitting
	p := c.pending

	verdict, err := game.Classify(p.verdict)
	if err != nil {
		c.log.Warn("unrecognised verdict", "verdict", p.verdict)
		c.view.Notify(Notice{Level: NoticeWarning, Message: fmt.Sprintf("Unexpected result: %s", p.verdict), TTL: c.cfg.NoticeTTL})
	}

	rec := c.session.Commit(p.player, p.opponent, verdict, p.verdict)
	metrics.RoundsCommitted.WithLabelValues(verdict.String()).Inc()
	c.view.RoundCommitted(RoundUpdate{
		Record:  rec,
		Score:   *c.session.Score,
		History: c.session.History.Records(),
	})

	c.pending = pendingRound{}
	c.attempt = 0
	c.round = RoundIdle
	c.session.State = MatchAwaitingInput
	c.view.Busy(false)

	if c.completionTimer != nil {
		c.completionTimer.Stop()
	}
	epoch := c.epoch
	c.completionTimer = c.clock.AfterFunc(c.cfg.CompletionDelay, func() {
		c.post(completionDue{epoch: epoch})
	})
}

func (c *Coordinator) handleCompletionDue(ctx context.Context, ev completionDue) {
	if ev.epoch != c.epoch {
		return
	}
	c.completionTimer = nil
	c.controller.CheckCompletion(ctx)
}

func (c *Coordinator) handleReset() {
	c.epoch++
	c.cancelPending()
	c.pending = pendingRound{}
	c.attempt = 0
	c.round = RoundIdle
	c.controller.Reset()
	c.log.Info("match reset")
	c.view.SessionReset(c.snapshot())
}

func (c *Coordinator) cancelPending() {
	if c.callCancel != nil {
		c.callCancel()
		c.callCancel = nil
	}
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	if c.revealCancel != nil {
		c.revealCancel()
		c.revealCancel = nil
	}
	if c.completionTimer != nil {
		c.completionTimer.Stop()
		c.completionTimer = nil
	}
}

func (c *Coordinator) snapshot() Snapshot {
	return Snapshot{
		State:   c.session.State,
		Round:   c.round,
		Attempt: c.attempt,
		Score:   *c.session.Score,
		History: c.session.History.Records(),
		Stats:   c.controller.Stats(),
		Final:   c.controller.Final(),
	}
}

func isTransient(err error) bool {
	return arbiter.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}

func failureReason(err error) string {
	var se *arbiter.StatusError
	switch {
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, arbiter.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, arbiter.ErrOffline):
		return "offline"
	case isTransient(err):
		return "timeout"
	default:
		return "other"
	}
}

func failureMessage(err error) string {
	var se *arbiter.StatusError
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, arbiter.ErrMalformedResponse):
		return "The server sent an invalid answer. Try again!"
	case errors.Is(err, arbiter.ErrOffline):
		return offlineMessage
	case isTransient(err):
		return "The server took too long to respond. Try again!"
	default:
		return err.Error()
	}
}
