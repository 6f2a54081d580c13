package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"jokenpo/internal/game"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Plays a whole match against a running server.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	host := flag.String("host", "127.0.0.1:"+port, "server host:port")
	flag.Parse()

	// anonymous session
	resp, err := http.Post("http://"+*host+"/api/v1/session", "application/json", bytes.NewReader(nil))
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	var sess struct {
		Token    string `json:"token"`
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		log.Fatalf("decode session: %v", err)
	}
	resp.Body.Close()
	log.Printf("player %s", sess.PlayerID)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", *host, sess.Token), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(want ...string) frame {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				log.Fatalf("read: %v", err)
			}
			if f.Type == "notice" || f.Type == "error" {
				log.Printf("%s: %s", f.Type, f.Data)
			}
			for _, w := range want {
				if f.Type == w {
					return f
				}
			}
		}
	}

	read("ready")
	for i := 0; ; i++ {
		move := game.Moves[i%game.MoveCount]
		if err := conn.WriteJSON(map[string]any{"type": "move", "value": move.Token()}); err != nil {
			log.Fatalf("write: %v", err)
		}
		f := read("round", "error")
		if f.Type == "error" {
			// a failed round leaves the session idle; try again
			continue
		}
		log.Printf("round %d: %s", i+1, f.Data)

		var u struct {
			Score game.ScoreBoard `json:"score"`
		}
		_ = json.Unmarshal(f.Data, &u)
		if u.Score.IsMatchComplete() {
			break
		}
	}

	final := read("final")
	log.Printf("final: %s", final.Data)
	log.Println("smoke test finished")
}
