package team

import (
	"errors"
	"fmt"
	"slices"
)

// ErrVersionConflict is returned by conditional writes whose expected
// snapshot no longer matches the stored record.
var ErrVersionConflict = errors.New("team record changed concurrently")

// Team groups players; usernames wait in Pending until an admin admits them.
type Team struct {
	ID      string
	Pending []string
	Members []string
	Version int64
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	return nil
}

func (t Team) Clone() Team {
	out := t
	out.Pending = slices.Clone(t.Pending)
	out.Members = slices.Clone(t.Members)
	return out
}
