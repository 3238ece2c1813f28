package models

import "time"

// DateLayout is the calendar-date format used for result dates everywhere (db, API, archive keys).
const DateLayout = "2006-01-02"

// Result is a reported score for one game. Immutable once created.
type Result struct {
	ID      string    `gorm:"primaryKey;type:uuid" json:"id"`
	Date    time.Time `gorm:"type:date;not null;index" json:"date"`
	Player1 string    `gorm:"not null" json:"player1"`
	Score1  int       `gorm:"not null" json:"score1"`
	Player2 string    `gorm:"not null" json:"player2"`
	Score2  int       `gorm:"not null" json:"score2"`

	// ScoredAt is set once the leaderboard rule has been applied to this row.
	// Rows inserted straight into the table have it NULL until the daily run picks them up.
	ScoredAt  *time.Time `json:"scored_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Result) TableName() string { return "results" }

// Winner returns the player with the strictly higher score. A tie has no winner.
func (r Result) Winner() (string, bool) {
	switch {
	case r.Score1 > r.Score2:
		return r.Player1, true
	case r.Score2 > r.Score1:
		return r.Player2, true
	default:
		return "", false
	}
}

// Day returns t's calendar date (as read in t's location) as midnight UTC.
// Dates are stored that way so the DATE column never shifts with the session time zone.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date, each read in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
