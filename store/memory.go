package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pingis-bot/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local runs without a database.
type MemoryStore struct {
	mu          sync.RWMutex
	matches     []models.Match
	results     []models.Result
	leaderboard map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leaderboard: make(map[string]int),
	}
}

func (m *MemoryStore) CreateMatch(_ context.Context, match *models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	match.CreatedAt = time.Now()
	m.matches = append(m.matches, *match)
	return nil
}

func (m *MemoryStore) ListMatches(_ context.Context) ([]models.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Match, len(m.matches))
	copy(out, m.matches)
	return out, nil
}

func (m *MemoryStore) CreateResult(_ context.Context, r *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.insertResult(r)
}

func (m *MemoryStore) RecordResult(_ context.Context, r *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.insertResult(r); err != nil {
		return err
	}
	m.scoreResult(r.ID)
	return nil
}

func (m *MemoryStore) ResultsOn(_ context.Context, day time.Time) ([]models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Result
	for _, r := range m.results {
		if models.SameDay(r.Date, day) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) ScoreResult(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.results {
		if r.ID == id {
			return m.scoreResult(id), nil
		}
	}
	return false, fmt.Errorf("result %s: %w", id, ErrNotFound)
}

// Leaderboard returns entries by points descending, then player name.
func (m *MemoryStore) Leaderboard(_ context.Context) ([]models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.LeaderboardEntry, 0, len(m.leaderboard))
	for player, points := range m.leaderboard {
		out = append(out, models.LeaderboardEntry{Player: player, Points: points})
	}
	models.SortLeaderboard(out)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) insertResult(r *models.Result) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	for _, existing := range m.results {
		if existing.ID == r.ID {
			return fmt.Errorf("result %s already exists", r.ID)
		}
	}
	r.Date = models.Day(r.Date)
	r.CreatedAt = time.Now()
	m.results = append(m.results, *r)
	return nil
}

// scoreResult must be called with mu held.
func (m *MemoryStore) scoreResult(id string) bool {
	for i := range m.results {
		r := &m.results[i]
		if r.ID != id {
			continue
		}
		if r.ScoredAt != nil {
			return false
		}
		now := time.Now()
		r.ScoredAt = &now
		if winner, ok := r.Winner(); ok {
			m.leaderboard[winner]++
		}
		return true
	}
	return false
}
