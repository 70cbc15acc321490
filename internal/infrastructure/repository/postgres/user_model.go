package postgres

import (
	"time"

	"github.com/lib/pq"
)

type userTableModel struct {
	Username          string         `db:"username"`
	DisplayName       string         `db:"display_name"`
	PictureID         string         `db:"picture_id"`
	ChallengesPending pq.StringArray `db:"challenges_pending"`
	ChallengesDone    pq.StringArray `db:"challenges_done"`
	ChallengesTimes   []byte         `db:"challenges_times"`
	Version           int64          `db:"version"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}
