package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"jokenpo/internal/arbiter"
)

// Prober checks the arbitration service before the first round.
type Prober interface {
	Ping(ctx context.Context) (*arbiter.PingResponse, error)
	CheckAssets(ctx context.Context) (*arbiter.AssetsResponse, error)
}

// RunPreflight pings the service and checks its sound assets. Every
// finding is advisory; gameplay is never blocked. It reports whether the
// service looked healthy.
func RunPreflight(ctx context.Context, cfg Config, p Prober, clock clockwork.Clock, view View, log *slog.Logger) bool {
	healthy := checkHealth(ctx, cfg, p, clock, view, log)
	if !healthy {
		view.Notify(Notice{Level: NoticeWarning, Message: "The game may not work correctly. Try reloading the page.", TTL: cfg.ErrorNoticeTTL})
	}
	checkAssets(ctx, cfg, p, view, log)
	return healthy
}

func checkHealth(ctx context.Context, cfg Config, p Prober, clock clockwork.Clock, view View, log *slog.Logger) bool {
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()

	resp, err := p.Ping(pingCtx)
	if err != nil {
		log.Warn("preflight ping", "error", err)
		msg := "Could not reach the server: " + err.Error()
		if errors.Is(err, arbiter.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			msg = "The server is taking too long to respond"
		}
		view.Notify(Notice{Level: NoticeWarning, Message: msg, TTL: cfg.NoticeTTL})
		return false
	}

	if resp.Status != "ok" {
		reason := resp.Message
		if reason == "" {
			reason = "status not ok"
		}
		view.Notify(Notice{Level: NoticeWarning, Message: "Service temporarily unavailable: " + reason, TTL: cfg.NoticeTTL})
		return false
	}

	if serverTime, err := time.Parse(time.RFC3339, resp.Timestamp); err == nil {
		skew := clock.Now().Sub(serverTime)
		if skew < 0 {
			skew = -skew
		}
		if skew > cfg.MaxClockSkew {
			log.Warn("server clock skew", "skew", skew)
			view.Notify(Notice{Level: NoticeWarning, Message: "Warning: the server clock may be out of sync", TTL: cfg.NoticeTTL})
		}
	}
	return true
}

func checkAssets(ctx context.Context, cfg Config, p Prober, view View, log *slog.Logger) {
	assetCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()

	resp, err := p.CheckAssets(assetCtx)
	if err != nil {
		log.Debug("preflight assets", "error", err)
		return
	}
	if resp.Status != "ok" {
		log.Warn("missing sound assets", "missing", resp.Missing)
		view.Notify(Notice{Level: NoticeWarning, Message: "Some audio files are missing", TTL: cfg.NoticeTTL})
	}
}
