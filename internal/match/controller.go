package match

import (
	"context"
	"log/slog"
	"time"

	"jokenpo/internal/domain"
	"jokenpo/internal/game"
	"jokenpo/internal/metrics"
)

const statsTimeout = 5 * time.Second

// StatsStore persists lifetime counters across sessions.
type StatsStore interface {
	Load(ctx context.Context, playerID string) (domain.LifetimeStats, error)
	Increment(ctx context.Context, playerID string, bucket game.Bucket) (int64, error)
	SetMusicEnabled(ctx context.Context, playerID string, enabled bool) error
}

// Controller owns match-level transitions: completion, the final report
// and restarts. It runs on the coordinator goroutine.
type Controller struct {
	playerID string
	cfg      Config
	session  *Session
	pools    *game.OutcomePools
	stats    StatsStore
	view     View
	log      *slog.Logger

	lifetime domain.LifetimeStats
	final    *FinalReport
}

func NewController(playerID string, cfg Config, session *Session, pools *game.OutcomePools, stats StatsStore, view View, log *slog.Logger) *Controller {
	return &Controller{
		playerID: playerID,
		cfg:      cfg,
		session:  session,
		pools:    pools,
		stats:    stats,
		view:     view,
		log:      log,
		lifetime: domain.LifetimeStats{MusicEnabled: true},
	}
}

// LoadStats reads the lifetime counters once per session.
func (m *Controller) LoadStats(ctx context.Context) {
	if m.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	st, err := m.stats.Load(ctx, m.playerID)
	if err != nil {
		m.log.Warn("load lifetime stats", "error", err)
		return
	}
	m.lifetime = st
	m.view.StatsChanged(st)
}

func (m *Controller) Stats() domain.LifetimeStats {
	return m.lifetime
}

func (m *Controller) Final() *FinalReport {
	if m.final == nil {
		return nil
	}
	r := *m.final
	return &r
}

// CheckCompletion finishes the match when no rounds remain. It is
// idempotent: a finished match is never reported twice.
func (m *Controller) CheckCompletion(ctx context.Context) bool {
	if !m.session.Score.IsMatchComplete() || m.session.State == MatchFinished {
		return false
	}

	outcome := m.session.Score.Outcome()
	msg, _ := m.pools.For(outcome).Next()
	m.bump(ctx, outcome.Bucket())

	m.session.State = MatchFinished
	report := FinalReport{
		Outcome:      outcome,
		Message:      decorate(outcome, msg),
		Score:        *m.session.Score,
		RestartLabel: restartLabel(outcome),
		Stats:        m.lifetime,
	}
	m.final = &report
	metrics.MatchesFinished.WithLabelValues(outcome.String()).Inc()
	m.log.Info("match finished",
		"outcome", outcome.String(),
		"wins", report.Score.PlayerWins,
		"losses", report.Score.OpponentWins,
		"draws", report.Score.Draws,
	)
	m.view.MatchFinished(report)
	return true
}

func (m *Controller) bump(ctx context.Context, bucket game.Bucket) {
	switch bucket {
	case game.BucketWins:
		m.lifetime.Wins++
	case game.BucketLosses:
		m.lifetime.Losses++
	case game.BucketDraws:
		m.lifetime.Draws++
	}
	if m.stats == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()
	n, err := m.stats.Increment(ctx, m.playerID, bucket)
	if err != nil {
		m.log.Warn("persist lifetime stats", "bucket", string(bucket), "error", err)
		m.view.Notify(Notice{Level: NoticeWarning, Message: "Could not save your stats.", TTL: m.cfg.NoticeTTL})
		return
	}
	// the store is authoritative when another tab played meanwhile
	switch bucket {
	case game.BucketWins:
		m.lifetime.Wins = n
	case game.BucketLosses:
		m.lifetime.Losses = n
	case game.BucketDraws:
		m.lifetime.Draws = n
	}
}

// Reset starts a fresh match. Pending timers are the coordinator's to cancel.
func (m *Controller) Reset() {
	m.session.Reset()
	m.final = nil
	m.view.ClearNotices()
	m.view.Busy(false)
}

func (m *Controller) SetMusicEnabled(ctx context.Context, enabled bool) error {
	m.lifetime.MusicEnabled = enabled
	m.view.StatsChanged(m.lifetime)
	if m.stats == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()
	return m.stats.SetMusicEnabled(ctx, m.playerID, enabled)
}

func restartLabel(o game.MatchOutcome) string {
	if o == game.OutcomeLoss {
		return "Try a rematch"
	}
	return "Play again"
}

func decorate(o game.MatchOutcome, msg string) string {
	switch o {
	case game.OutcomeWin:
		return "🎉 " + msg + " 🎊"
	case game.OutcomeLoss:
		return "😞 " + msg
	default:
		return "🤝 " + msg
	}
}
