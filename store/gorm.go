package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pingis-bot/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps everything in PostgreSQL. gorm pools connections, so every call
// gets its own connection and nothing is shared between goroutines.
type GormStore struct {
	DB *gorm.DB
}

// OpenPostgres connects to dsn and creates the tables if they are missing.
func OpenPostgres(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Migrate() error {
	if err := s.DB.AutoMigrate(
		&models.Match{},
		&models.Result{},
		&models.LeaderboardEntry{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *GormStore) CreateMatch(ctx context.Context, m *models.Match) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (s *GormStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := s.DB.WithContext(ctx).Order("created_at asc").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (s *GormStore) CreateResult(ctx context.Context, r *models.Result) error {
	prepareResult(r)
	if err := s.DB.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *GormStore) RecordResult(ctx context.Context, r *models.Result) error {
	prepareResult(r)
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
		_, err := scoreResult(tx, r.ID)
		return err
	})
}

func (s *GormStore) ResultsOn(ctx context.Context, day time.Time) ([]models.Result, error) {
	var results []models.Result
	err := s.DB.WithContext(ctx).
		Where("date = ?", day.Format(models.DateLayout)).
		Order("created_at asc").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", day.Format(models.DateLayout), err)
	}
	return results, nil
}

func (s *GormStore) ScoreResult(ctx context.Context, id string) (bool, error) {
	var scored bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		scored, err = scoreResult(tx, id)
		return err
	})
	return scored, err
}

func (s *GormStore) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := s.DB.WithContext(ctx).Order("points desc").Order("player asc").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list leaderboard: %w", err)
	}
	return entries, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// scoreResult claims the result by stamping scored_at and, if the claim succeeded,
// gives the winner a point. Must run inside a transaction.
func scoreResult(tx *gorm.DB, id string) (bool, error) {
	claim := tx.Model(&models.Result{}).
		Where("id = ? AND scored_at IS NULL", id).
		Update("scored_at", time.Now())
	if claim.Error != nil {
		return false, fmt.Errorf("claim result %s: %w", id, claim.Error)
	}
	if claim.RowsAffected == 0 {
		// Either already scored or no such result.
		err := tx.Select("id").Where("id = ?", id).First(&models.Result{}).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("result %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return false, fmt.Errorf("load result %s: %w", id, err)
		}
		return false, nil
	}

	var r models.Result
	if err := tx.Where("id = ?", id).First(&r).Error; err != nil {
		return false, fmt.Errorf("load result %s: %w", id, err)
	}
	winner, ok := r.Winner()
	if !ok {
		return true, nil
	}
	if err := addPoint(tx, winner); err != nil {
		return false, err
	}
	return true, nil
}

// addPoint inserts the player with one point or adds one to the existing total.
func addPoint(tx *gorm.DB, player string) error {
	entry := models.LeaderboardEntry{Player: player, Points: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":     gorm.Expr("leaderboard.points + ?", 1),
			"updated_at": time.Now(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("add point for %s: %w", player, err)
	}
	return nil
}

func prepareResult(r *models.Result) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Date = models.Day(r.Date)
}
