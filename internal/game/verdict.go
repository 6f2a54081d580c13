package game

import (
	"errors"
	"fmt"
	"strings"
)

// Verdict is the outcome of a single round from the player's point of view.
// The arbitration service is authoritative; the client only classifies tokens.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictPlayerWin
	VerdictOpponentWin
	VerdictDraw
)

// Wire tokens produced by the arbitration service.
const (
	TokenWin  = "win"
	TokenLose = "lose"
	TokenDraw = "draw"
)

var ErrUnknownVerdict = errors.New("unknown verdict token")

var verdictTokens = map[string]Verdict{
	TokenWin:  VerdictPlayerWin,
	TokenLose: VerdictOpponentWin,
	TokenDraw: VerdictDraw,

	// tokens of the first server revision
	"o jogador ganhou!":    VerdictPlayerWin,
	"o computador ganhou!": VerdictOpponentWin,
	"empate!":              VerdictDraw,
}

// Classify maps a verdict token to a Verdict. Unrecognised tokens yield
// VerdictUnknown together with an error wrapping ErrUnknownVerdict; callers
// treat that as a display anomaly, not a failure.
func Classify(token string) (Verdict, error) {
	v, ok := verdictTokens[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return VerdictUnknown, fmt.Errorf("%w: %q", ErrUnknownVerdict, token)
	}
	return v, nil
}

// Token returns the canonical wire token, empty for VerdictUnknown.
func (v Verdict) Token() string {
	switch v {
	case VerdictPlayerWin:
		return TokenWin
	case VerdictOpponentWin:
		return TokenLose
	case VerdictDraw:
		return TokenDraw
	default:
		return ""
	}
}

func (v Verdict) String() string {
	switch v {
	case VerdictPlayerWin:
		return "player_win"
	case VerdictOpponentWin:
		return "opponent_win"
	case VerdictDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Bucket is a lifetime statistics counter.
type Bucket string

const (
	BucketWins   Bucket = "wins"
	BucketLosses Bucket = "losses"
	BucketDraws  Bucket = "draws"
	BucketNone   Bucket = ""
)

// Buckets lists the persisted counters.
var Buckets = []Bucket{BucketWins, BucketLosses, BucketDraws}

func (v Verdict) Bucket() Bucket {
	switch v {
	case VerdictPlayerWin:
		return BucketWins
	case VerdictOpponentWin:
		return BucketLosses
	case VerdictDraw:
		return BucketDraws
	default:
		return BucketNone
	}
}

// MatchOutcome is the aggregate result of a finished match.
type MatchOutcome int

const (
	OutcomeDraw MatchOutcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "draw"
	}
}

func (o MatchOutcome) Bucket() Bucket {
	switch o {
	case OutcomeWin:
		return BucketWins
	case OutcomeLoss:
		return BucketLosses
	default:
		return BucketDraws
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (o MatchOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
