package game

import (
	"math/rand/v2"
	"sync"
)

// Weights of the opponent strategy once the previous player move is known.
const (
	counterWeight = 0.6
	plainWeight   = 0.3
)

// Beats returns the move that defeats m.
func Beats(m Move) Move {
	return Move((int(m) + 1) % MoveCount)
}

// Decide is the authoritative round verdict, from the player's perspective.
// Only the arbitration service calls it; session code classifies the token
// the service returns instead.
func Decide(player, opponent Move) Verdict {
	switch {
	case player == opponent:
		return VerdictDraw
	case opponent == Beats(player):
		return VerdictOpponentWin
	default:
		return VerdictPlayerWin
	}
}

// Opponent picks the server's move for a round.
type Opponent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewOpponent(rng *rand.Rand) *Opponent {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Opponent{rng: rng}
}

// Weights returns the selection weights for each move. Without a previous
// player move the choice is uniform; otherwise the counter to the previous
// move is favoured.
func Weights(previous *Move) [MoveCount]float64 {
	if previous == nil || !previous.Valid() {
		return [MoveCount]float64{1, 1, 1}
	}
	w := [MoveCount]float64{plainWeight, plainWeight, plainWeight}
	w[Beats(*previous)] = counterWeight
	return w
}

// Choose draws the opponent move.
func (o *Opponent) Choose(previous *Move) Move {
	w := Weights(previous)
	total := 0.0
	for _, x := range w {
		total += x
	}

	o.mu.Lock()
	r := o.rng.Float64() * total
	o.mu.Unlock()

	for i, x := range w {
		if r < x {
			return Move(i)
		}
		r -= x
	}
	return Scissors
}
