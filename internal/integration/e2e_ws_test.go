package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"jokenpo/internal/arbiter"
	"jokenpo/internal/config"
	httpserver "jokenpo/internal/http"
	"jokenpo/internal/http/handlers"
	"jokenpo/internal/match"
	"jokenpo/internal/repository"
	"jokenpo/internal/service"
	"jokenpo/internal/ws"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// One process serves both the arbitration endpoint and the gateway, the
// way cmd/app runs without ARBITER_URL.
func TestE2E_FullMatchOverWebsocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	r := gin.New()
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := &config.Config{
		RoundsPerMatch: 10,
		HistoryLimit:   10,
		TimeUnit:       time.Millisecond,
		MaxRetries:     3,
		StaticDir:      t.TempDir(),
		SoundsDir:      t.TempDir(),
		PlayRateLimit:  1000,
		PlayRateWindow: 60,
	}
	stats := repository.NewMemoryStatsRepository()
	arb := arbiter.NewClient(srv.URL)
	mcfg := cfg.Match()
	mcfg.RequestTimeout = 2 * time.Second
	hub := ws.NewHub(ws.HubConfig{
		Match:   mcfg,
		Arbiter: arb,
		ArbiterFor: func(token string) match.Arbiter {
			return arb.WithToken(token)
		},
		Prober: arb,
		Stats:  stats,
	})
	defer hub.Shutdown()

	httpserver.RegisterRoutes(r, cfg, httpserver.Deps{
		Handler: handlers.NewHandler(nil, stats),
		Health:  handlers.NewHealthHandler(nil, nil, cfg.SoundsDir, "test"),
		Hub:     hub,
	})

	resp, err := http.Post(srv.URL+"/api/v1/session", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	var sess struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	resp.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + sess.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(want string) frame {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				t.Fatalf("waiting for %q: %v", want, err)
			}
			if f.Type == ws.MsgError {
				t.Fatalf("unexpected error frame: %s", f.Data)
			}
			if f.Type == want {
				return f
			}
		}
	}

	read(ws.MsgReady)
	moves := []string{"rock", "paper", "scissors"}
	for i := 0; i < 10; i++ {
		if err := conn.WriteJSON(map[string]any{"type": ws.MsgMove, "value": moves[i%3]}); err != nil {
			t.Fatalf("write: %v", err)
		}
		var u struct {
			Record struct {
				Sequence int `json:"sequence"`
			} `json:"record"`
			Score struct {
				RoundsRemaining int `json:"rounds_remaining"`
			} `json:"score"`
		}
		if err := json.Unmarshal(read(ws.MsgRound).Data, &u); err != nil {
			t.Fatalf("decode round: %v", err)
		}
		if u.Record.Sequence != i+1 || u.Score.RoundsRemaining != 9-i {
			t.Fatalf("round %d: unexpected update %+v", i+1, u)
		}
	}

	var final struct {
		Outcome      string `json:"outcome"`
		RestartLabel string `json:"restart_label"`
		Stats        struct {
			Wins   int64 `json:"wins"`
			Losses int64 `json:"losses"`
			Draws  int64 `json:"draws"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(read(ws.MsgFinal).Data, &final); err != nil {
		t.Fatalf("decode final: %v", err)
	}
	if final.Stats.Wins+final.Stats.Losses+final.Stats.Draws != 1 {
		t.Fatalf("expected one finished match in lifetime stats, got %+v", final.Stats)
	}

	// lifetime stats are visible over HTTP too
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Total int64 `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Total != 1 {
		t.Fatalf("unexpected stats response (total=%d, err=%v)", body.Total, err)
	}

	// the finished match rejects further moves until reset
	if err := conn.WriteJSON(map[string]any{"type": ws.MsgMove, "value": "rock"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if f.Type == ws.MsgError {
			break
		}
	}
	if err := conn.WriteJSON(map[string]any{"type": ws.MsgReset}); err != nil {
		t.Fatalf("write: %v", err)
	}
	read(ws.MsgReset)
}
