package leaderboard

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/domain/team"
	"github.com/riskibarqy/challenge-league/internal/domain/user"
)

// ComputeUserPoints sums points over every done entry. Duplicates count each
// time and unknown challenge ids count zero.
func ComputeUserPoints(u user.User, index challenge.Index) int64 {
	var total int64
	for _, id := range u.ChallengesDone {
		total += index.PointsOf(id)
	}
	return total
}

// ComputeLeaderboard aggregates member points per team. Teams keep their
// enumeration order and members keep their list order; unknown usernames
// are skipped.
func ComputeLeaderboard(users []user.User, teams []team.Team, challenges []challenge.Challenge) []TeamStanding {
	index := challenge.NewIndex(challenges)

	byUsername := make(map[string]user.User, len(users))
	for _, u := range users {
		if _, exists := byUsername[u.Username]; exists {
			continue
		}
		byUsername[u.Username] = u
	}

	out := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		standing := TeamStanding{
			TeamID:  t.ID,
			Pending: slices.Clone(t.Pending),
			Members: make([]MemberPoints, 0, len(t.Members)),
		}
		for _, username := range t.Members {
			u, ok := byUsername[username]
			if !ok {
				continue
			}
			points := ComputeUserPoints(u, index)
			standing.Points += points
			standing.Members = append(standing.Members, MemberPoints{
				Username:    u.Username,
				DisplayName: u.DisplayName,
				Points:      points,
				PictureID:   u.PictureID,
			})
		}
		out = append(out, standing)
	}

	return out
}

// RankByPoints returns a copy ordered by points descending; ties keep
// their relative order.
func RankByPoints(teams []TeamStanding) []TeamStanding {
	out := slices.Clone(teams)
	slices.SortStableFunc(out, func(a, b TeamStanding) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return out
}
