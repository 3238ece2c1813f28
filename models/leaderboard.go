package models

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LeaderboardEntry holds a player's cumulative points. One point per won game.
type LeaderboardEntry struct {
	Player    string    `gorm:"primaryKey" json:"player"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LeaderboardEntry) TableName() string { return "leaderboard" }

// SortLeaderboard orders entries by points descending. Players on equal points are
// ordered by Swedish collation (å, ä, ö after z), falling back to byte order.
func SortLeaderboard(entries []LeaderboardEntry) {
	c := collate.New(language.Swedish)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if cmp := c.CompareString(a.Player, b.Player); cmp != 0 {
			return cmp < 0
		}
		return a.Player < b.Player
	})
}
