package game

import (
	"math/rand/v2"
	"sync"
)

// FallbackMessage is returned once a pool has been drained.
const FallbackMessage = "Game over!"

var (
	winMessages = []string{
		"VICTORY! Did you read the computer's mind or was it luck? 🤔🏆",
		"CHAMPION! The computer is already asking for a rematch! 🎉",
		"INCREDIBLE! Your Jokenpô skills are legendary! 🥇",
		"DOMINATED! The computer is still computing how you did that... 💪",
		"SHOWTIME! The trophy is yours! 👑",
		"PERFECT! Not even the most advanced AI could stop you! ✨",
		"WOW! That win was prettier than bug-free code! 😉",
	}
	lossMessages = []string{
		"DEFEAT! Skynet sends its regards... 🤖",
		"OOPS! The computer predicted your moves! 📟",
		"ALMOST! Just a little short... or was it a lot? ⚠️",
		"HUH! The computer must have been training in secret! 🧐",
		"NOT THIS TIME! Revenge is a dish best played cold! 💔",
		"GAME OVER! The computer laughed in binary! 01101000 01100001! 😂",
		"BETTER LUCK NEXT TIME! Or just throw Rock, everybody throws Rock... 🗿",
	}
	drawMessages = []string{
		"DRAW! A mind link with the machine? Bizarre! 🤷",
		"EVEN! Nobody won, but the thrill was real! 👏",
		"IN SYNC! That was almost a Jokenpô duet! 🔄",
		"BALANCE! The Force is even between you two! 🤝",
		"NO WIN, NO LOSS! Just... a draw! ⚖️",
		"AGAIN? Are you two coordinating your moves? 👀",
		"SO EVEN IT BUGGED! Just kidding... or not? 🤔",
	}
)

// MessagePool hands out messages in random order without repetition.
// The order is fixed at (re)fill time; Next walks it with a cursor.
type MessagePool struct {
	mu       sync.Mutex
	source   []string
	queue    []string
	cursor   int
	rng      *rand.Rand
	fallback string
}

func NewMessagePool(messages []string, rng *rand.Rand) *MessagePool {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	p := &MessagePool{
		source:   append([]string(nil), messages...),
		rng:      rng,
		fallback: FallbackMessage,
	}
	p.Refill()
	return p
}

// Next returns the next message and false once the pool is exhausted, in
// which case the fallback message is returned.
func (p *MessagePool) Next() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cursor >= len(p.queue) {
		return p.fallback, false
	}
	msg := p.queue[p.cursor]
	p.cursor++
	return msg, true
}

// Remaining is the number of messages left before the fallback kicks in.
func (p *MessagePool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) - p.cursor
}

// Refill reshuffles the full source set and rewinds the cursor.
func (p *MessagePool) Refill() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = append(p.queue[:0], p.source...)
	p.rng.Shuffle(len(p.queue), func(i, j int) {
		p.queue[i], p.queue[j] = p.queue[j], p.queue[i]
	})
	p.cursor = 0
}

// OutcomePools groups one pool per match outcome.
type OutcomePools struct {
	Win  *MessagePool
	Loss *MessagePool
	Draw *MessagePool
}

func NewOutcomePools(rng *rand.Rand) *OutcomePools {
	return &OutcomePools{
		Win:  NewMessagePool(winMessages, rng),
		Loss: NewMessagePool(lossMessages, rng),
		Draw: NewMessagePool(drawMessages, rng),
	}
}

func (p *OutcomePools) For(o MatchOutcome) *MessagePool {
	switch o {
	case OutcomeWin:
		return p.Win
	case OutcomeLoss:
		return p.Loss
	default:
		return p.Draw
	}
}
