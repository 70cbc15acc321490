package postgres

import (
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	TeamID    string         `db:"team_id"`
	Pending   pq.StringArray `db:"pending"`
	Members   pq.StringArray `db:"members"`
	Version   int64          `db:"version"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
