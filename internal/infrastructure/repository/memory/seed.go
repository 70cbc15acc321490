package memory

import (
	"time"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

// SeedChallenges returns demo challenges with windows around now.
func SeedChallenges(now time.Time) []challenge.Challenge {
	weekStart := now.Add(-24 * time.Hour).Unix()
	weekEnd := now.Add(6 * 24 * time.Hour).Unix()

	return []challenge.Challenge{
		{ID: "run-5k", Name: "Run 5k", Description: "Finish a 5k run and post the trace.", Points: 10, Start: weekStart, End: weekEnd, MaxCount: 1},
		{ID: "plank-3min", Name: "Plank 3 minutes", Description: "Hold a plank for three minutes.", Points: 5, Start: weekStart, End: weekEnd, MaxCount: 3},
		{ID: "team-photo", Name: "Team photo", Description: "Take a photo with every team member.", Points: 20, Start: now.Add(-30 * 24 * time.Hour).Unix(), End: now.Add(60 * 24 * time.Hour).Unix(), MaxCount: 1},
		{ID: "early-bird", Name: "Early bird", Description: "Already closed.", Points: 15, Start: now.Add(-14 * 24 * time.Hour).Unix(), End: now.Add(-7 * 24 * time.Hour).Unix(), MaxCount: 1},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{Username: "alice", DisplayName: "Alice", ChallengesDone: []string{"run-5k"}, ChallengesTimes: map[string]int64{"run-5k": 1694426400}},
		{Username: "bob", DisplayName: "Bob", ChallengesPending: []string{"plank-3min"}, ChallengesDone: []string{"plank-3min"}, ChallengesTimes: map[string]int64{"plank-3min": 1694512800}},
		{Username: "carol", DisplayName: "Carol"},
		{Username: "dave", DisplayName: "Dave"},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "red", Members: []string{"alice", "bob"}, Pending: []string{"dave"}},
		{ID: "blue", Members: []string{"carol"}},
	}
}
