package postgres

import "time"

type challengeTableModel struct {
	ChallengeID string    `db:"challenge_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	PictureID   string    `db:"picture_id"`
	Points      int64     `db:"points"`
	StartAt     int64     `db:"start_at"`
	EndAt       int64     `db:"end_at"`
	MaxCount    int       `db:"max_count"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
