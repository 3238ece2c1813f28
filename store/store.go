package store

import (
	"context"
	"errors"
	"time"

	"pingis-bot/models"
)

var ErrNotFound = errors.New("record not found")

// Store is the persistence contract for matches, results and the leaderboard.
// Implementations must be safe for concurrent use by the command path and the scheduler.
type Store interface {
	CreateMatch(ctx context.Context, m *models.Match) error
	ListMatches(ctx context.Context) ([]models.Match, error)

	// CreateResult inserts a result without scoring it. The next daily run scores it.
	CreateResult(ctx context.Context, r *models.Result) error
	// RecordResult inserts a result and applies the leaderboard rule to it in one transaction.
	RecordResult(ctx context.Context, r *models.Result) error
	ResultsOn(ctx context.Context, day time.Time) ([]models.Result, error)
	// ScoreResult applies the leaderboard rule to an unscored result. It returns false
	// when the result was already scored, so a result never counts twice.
	ScoreResult(ctx context.Context, id string) (bool, error)

	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)

	Close() error
}
