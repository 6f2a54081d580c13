package ws

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"jokenpo/internal/logger"
	"jokenpo/internal/match"
	"jokenpo/internal/metrics"
)

// HubConfig wires the collaborators every session shares.
type HubConfig struct {
	Match       match.Config
	Arbiter     match.Arbiter
	// ArbiterFor builds the arbiter of one session from the player's bearer
	// token. Arbiter is used when it is nil.
	ArbiterFor  func(token string) match.Arbiter
	Prober      match.Prober
	Stats       match.StatsStore
	Clock       clockwork.Clock
	IdleTimeout time.Duration
}

// Hub tracks live sessions and closes idle ones.
type Hub struct {
	cfg   HubConfig
	clock clockwork.Clock
	log   *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}

	scheduler gocron.Scheduler
}

func NewHub(cfg HubConfig) *Hub {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Hub{
		cfg:     cfg,
		clock:   cfg.Clock,
		log:     logger.Component("ws"),
		clients: make(map[*Client]struct{}),
	}
}

// NewClient binds conn to a fresh match session for playerID. token is the
// player's bearer token, forwarded to the arbitration service.
func (h *Hub) NewClient(playerID, token string, conn *websocket.Conn) *Client {
	c := &Client{
		PlayerID: playerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		hub:      h,
		log:      h.log.With("player_id", playerID),
		sendWait: sendWait,
		closed:   make(chan struct{}),
	}
	c.touch()
	c.coord = match.NewCoordinator(h.cfg.Match, match.Deps{
		PlayerID: playerID,
		Arbiter:  h.arbiterFor(token),
		Prober:   h.cfg.Prober,
		Stats:    h.cfg.Stats,
		View:     connView{client: c},
		Clock:    h.clock,
		Logger:   logger.Component("match"),
	})
	return c
}

func (h *Hub) arbiterFor(token string) match.Arbiter {
	if h.cfg.ArbiterFor != nil && token != "" {
		return h.cfg.ArbiterFor(token)
	}
	return h.cfg.Arbiter
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.ActiveSessions.Inc()
	h.log.Info("session opened", "player_id", c.PlayerID, "sessions", n)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		metrics.ActiveSessions.Dec()
		h.log.Info("session closed", "player_id", c.PlayerID, "sessions", n)
	}
}

// Count is the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartCleanup schedules the idle-session sweep.
func (h *Hub) StartCleanup(every time.Duration) error {
	if h.cfg.IdleTimeout <= 0 {
		return nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if n := h.CloseIdle(); n > 0 {
				h.log.Info("closed idle sessions", "count", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule idle cleanup: %w", err)
	}
	s.Start()
	h.scheduler = s
	return nil
}

// CloseIdle closes sessions whose peer has been silent longer than the
// idle timeout and returns how many were closed.
func (h *Hub) CloseIdle() int {
	now := h.clock.Now()
	var idle []*Client

	h.mu.RLock()
	for c := range h.clients {
		if now.Sub(c.IdleSince()) > h.cfg.IdleTimeout {
			idle = append(idle, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range idle {
		c.Close()
	}
	return len(idle)
}

// Shutdown stops the cleanup job and closes every session.
func (h *Hub) Shutdown() {
	if h.scheduler != nil {
		if err := h.scheduler.Shutdown(); err != nil {
			h.log.Warn("scheduler shutdown", "error", err)
		}
	}

	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.Close()
	}
}
