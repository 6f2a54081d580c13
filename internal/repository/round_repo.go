package repository

import (
	"context"
	"time"

	"jokenpo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoundRepository struct {
	db *pgxpool.Pool
}

func NewRoundRepository(db *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{db: db}
}

// Create appends an arbitrated round to the log
func (r *RoundRepository) Create(ctx context.Context, round *domain.ArbitratedRound) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO arbitrated_rounds
			(player_id, player_move, previous_move, opponent_move, verdict)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		round.PlayerID,
		round.PlayerMove,
		round.PreviousMove,
		round.OpponentMove,
		round.Verdict,
	).Scan(&round.ID, &round.CreatedAt)
}

// GetByPlayer returns the latest rounds of a player, newest first
func (r *RoundRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.ArbitratedRound, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, player_id, player_move, previous_move, opponent_move, verdict, created_at
		 FROM arbitrated_rounds
		 WHERE player_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRounds(rows)
}

// GetPlayerStats aggregates the verdicts of a player since the given time
func (r *RoundRepository) GetPlayerStats(ctx context.Context, playerID string, since time.Time) (*domain.RoundStats, error) {
	stats := &domain.RoundStats{PlayerID: playerID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as rounds,
			COUNT(*) FILTER (WHERE verdict = 'win') as wins,
			COUNT(*) FILTER (WHERE verdict = 'lose') as losses,
			COUNT(*) FILTER (WHERE verdict = 'draw') as draws
		 FROM arbitrated_rounds
		 WHERE player_id = $1 AND created_at >= $2`,
		playerID, since,
	).Scan(&stats.Rounds, &stats.Wins, &stats.Losses, &stats.Draws)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func scanRounds(rows pgx.Rows) ([]*domain.ArbitratedRound, error) {
	var result []*domain.ArbitratedRound

	for rows.Next() {
		var ar domain.ArbitratedRound
		if err := rows.Scan(
			&ar.ID, &ar.PlayerID, &ar.PlayerMove, &ar.PreviousMove,
			&ar.OpponentMove, &ar.Verdict, &ar.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &ar)
	}

	return result, rows.Err()
}
