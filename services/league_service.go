package services

import (
	"context"
	"fmt"
	"time"

	"pingis-bot/models"
	"pingis-bot/store"

	"github.com/jonboulle/clockwork"
)

// LeagueService records matches and results and reads the leaderboard.
type LeagueService struct {
	Store    store.Store
	Clock    clockwork.Clock
	Location *time.Location
}

func NewLeagueService(st store.Store, clock clockwork.Clock, loc *time.Location) *LeagueService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &LeagueService{Store: st, Clock: clock, Location: loc}
}

// Today is the current calendar date in the league's time zone.
func (s *LeagueService) Today() time.Time {
	return models.Day(s.Clock.Now().In(s.Location))
}

func (s *LeagueService) AddMatch(ctx context.Context, player1, player2, at string) (*models.Match, error) {
	m := &models.Match{Player1: player1, Player2: player2, Time: at}
	if err := s.Store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReportResult stores a result dated today and gives the winner a point.
func (s *LeagueService) ReportResult(ctx context.Context, player1 string, score1 int, player2 string, score2 int) (*models.Result, error) {
	r := &models.Result{
		Date:    s.Today(),
		Player1: player1,
		Score1:  score1,
		Player2: player2,
		Score2:  score2,
	}
	if err := s.Store.RecordResult(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ImportResult stores a result without scoring it; the daily run scores it.
// Used for backfilling games that never went through the command.
func (s *LeagueService) ImportResult(ctx context.Context, r *models.Result) error {
	if r.Date.IsZero() {
		r.Date = s.Today()
	}
	return s.Store.CreateResult(ctx, r)
}

func (s *LeagueService) Matches(ctx context.Context) ([]models.Match, error) {
	return s.Store.ListMatches(ctx)
}

func (s *LeagueService) ResultsOn(ctx context.Context, day time.Time) ([]models.Result, error) {
	return s.Store.ResultsOn(ctx, day)
}

// ScoreUnscored applies the leaderboard rule to every result that has not been scored yet.
// Returns how many results were scored by this call.
func (s *LeagueService) ScoreUnscored(ctx context.Context, results []models.Result) (int, error) {
	scored := 0
	for _, r := range results {
		if r.ScoredAt != nil {
			continue
		}
		ok, err := s.Store.ScoreResult(ctx, r.ID)
		if err != nil {
			return scored, fmt.Errorf("score result %s: %w", r.ID, err)
		}
		if ok {
			scored++
		}
	}
	return scored, nil
}

// Leaderboard returns all entries, highest points first.
func (s *LeagueService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	entries, err := s.Store.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	models.SortLeaderboard(entries)
	return entries, nil
}
