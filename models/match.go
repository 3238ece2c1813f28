package models

import "time"

// Match is an upcoming game registered with the add-match command.
// Time is whatever the players typed ("fre-12:00", "lunch"); it is never parsed.
type Match struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Player1   string    `gorm:"not null" json:"player1"`
	Player2   string    `gorm:"not null" json:"player2"`
	Time      string    `gorm:"column:time;not null" json:"time"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Match) TableName() string { return "matches" }
