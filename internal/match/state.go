package match

// MatchState is the match-wide admission state.
type MatchState int

const (
	MatchAwaitingInput MatchState = iota
	MatchInProgress
	MatchFinished
)

func (s MatchState) String() string {
	switch s {
	case MatchAwaitingInput:
		return "awaiting_input"
	case MatchInProgress:
		return "in_progress"
	case MatchFinished:
		return "finished"
	default:
		return "unknown"
	}
}

func (s MatchState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RoundState is the per-round lifecycle.
//
//	Idle -> Submitting -> AwaitingReveal -> Committing -> Idle
//	          \-> ErrorRecovery -> Idle
type RoundState int

const (
	RoundIdle RoundState = iota
	RoundSubmitting
	RoundAwaitingReveal
	RoundCommitting
	RoundErrorRecovery
)

func (s RoundState) String() string {
	switch s {
	case RoundIdle:
		return "idle"
	case RoundSubmitting:
		return "submitting"
	case RoundAwaitingReveal:
		return "awaiting_reveal"
	case RoundCommitting:
		return "committing"
	case RoundErrorRecovery:
		return "error_recovery"
	default:
		return "unknown"
	}
}

func (s RoundState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
