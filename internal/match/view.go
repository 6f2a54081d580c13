package match

import (
	"time"

	"jokenpo/internal/domain"
	"jokenpo/internal/game"
)

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message. A zero TTL means it stays until cleared.
type Notice struct {
	Level   NoticeLevel
	Message string
	TTL     time.Duration
}

// RevealFrame is one step of the reveal animation. Shown cycles through
// the catalog until Settled, when it is the opponent's real move.
type RevealFrame struct {
	PlayerMove game.Move `json:"player_move"`
	Shown      game.Move `json:"shown"`
	Countdown  int       `json:"countdown"`
	Settled    bool      `json:"settled"`
}

// RoundUpdate is published after a round is committed.
type RoundUpdate struct {
	Record  game.RoundRecord   `json:"record"`
	Score   game.ScoreBoard    `json:"score"`
	History []game.RoundRecord `json:"history"`
}

// FinalReport is published once per finished match.
type FinalReport struct {
	Outcome      game.MatchOutcome    `json:"outcome"`
	Message      string               `json:"message"`
	Score        game.ScoreBoard      `json:"score"`
	RestartLabel string               `json:"restart_label"`
	Stats        domain.LifetimeStats `json:"stats"`
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State   MatchState           `json:"state"`
	Round   RoundState           `json:"round"`
	Attempt int                  `json:"attempt"`
	Score   game.ScoreBoard      `json:"score"`
	History []game.RoundRecord   `json:"history"`
	Stats   domain.LifetimeStats `json:"stats"`
	Final   *FinalReport         `json:"final,omitempty"`
}

// View receives presentation events. Reveal frames are delivered from the
// reveal goroutine, so implementations must be safe for concurrent use.
type View interface {
	Busy(busy bool)
	Notify(n Notice)
	ClearNotices()
	RevealFrame(f RevealFrame)
	RoundCommitted(u RoundUpdate)
	MatchFinished(r FinalReport)
	SessionReset(s Snapshot)
	StatsChanged(s domain.LifetimeStats)
}

// NopView discards every event.
type NopView struct{}

func (NopView) Busy(bool)                         {}
func (NopView) Notify(Notice)                     {}
func (NopView) ClearNotices()                     {}
func (NopView) RevealFrame(RevealFrame)           {}
func (NopView) RoundCommitted(RoundUpdate)        {}
func (NopView) MatchFinished(FinalReport)         {}
func (NopView) SessionReset(Snapshot)             {}
func (NopView) StatsChanged(domain.LifetimeStats) {}
