package user

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrVersionConflict is returned by conditional writes whose expected
// snapshot no longer matches the stored record.
var ErrVersionConflict = errors.New("user record changed concurrently")

// User is a player profile with its challenge progression state.
// ChallengesTimes keeps the first completion time (epoch seconds) per challenge.
type User struct {
	Username          string
	DisplayName       string
	PictureID         string
	ChallengesPending []string
	ChallengesDone    []string
	ChallengesTimes   map[string]int64
	Version           int64
}

func (u User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (u User) Clone() User {
	out := u
	out.ChallengesPending = slices.Clone(u.ChallengesPending)
	out.ChallengesDone = slices.Clone(u.ChallengesDone)
	out.ChallengesTimes = maps.Clone(u.ChallengesTimes)
	return out
}

// Attempts counts how many times challengeID is pending or done.
func (u User) Attempts(challengeID string) int {
	return Count(u.ChallengesPending, challengeID) + Count(u.ChallengesDone, challengeID)
}

// Count returns the number of occurrences of value in items.
func Count(items []string, value string) int {
	n := 0
	for _, item := range items {
		if item == value {
			n++
		}
	}
	return n
}
