package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"

	"jokenpo/internal/game"
	"jokenpo/internal/repository"
	"jokenpo/internal/service"
)

// Mints a player token, optionally seeding its lifetime stats in Redis.
func main() {
	wins := flag.Int("wins", 0, "lifetime wins to seed")
	losses := flag.Int("losses", 0, "lifetime losses to seed")
	draws := flag.Int("draws", 0, "lifetime draws to seed")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	service.InitJWT(secret)

	playerID := service.NewPlayerID()
	token, err := service.GenerateJWT(playerID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		repo := repository.NewStatsRepository(rdb)
		seed := map[game.Bucket]int{game.BucketWins: *wins, game.BucketLosses: *losses, game.BucketDraws: *draws}
		for bucket, n := range seed {
			for i := 0; i < n; i++ {
				if _, err := repo.Increment(ctx, playerID, bucket); err != nil {
					log.Fatalf("seed %s: %v", bucket, err)
				}
			}
		}
		st, err := repo.Load(ctx, playerID)
		if err != nil {
			log.Fatalf("load stats: %v", err)
		}
		log.Printf("stats wins=%d losses=%d draws=%d", st.Wins, st.Losses, st.Draws)
	}

	log.Printf("player_id=%s\n", playerID)
	log.Printf("token=%s\n", token)
}
