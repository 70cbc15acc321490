package httpapi

import (
	"github.com/riskibarqy/challenge-league/internal/domain/leaderboard"
	"github.com/riskibarqy/challenge-league/internal/usecase"
)

type acceptChallengeRequest struct {
	Challenge string `json:"challenge" validate:"required,max=128"`
}

type joinTeamRequest struct {
	Username string `json:"username" validate:"required,max=128"`
}

type messageDTO struct {
	Message string `json:"message"`
}

type profileDTO struct {
	Username          string           `json:"username"`
	DisplayName       string           `json:"display_name"`
	PictureID         string           `json:"picture_id"`
	ChallengesPending []string         `json:"challenges_pending"`
	ChallengesDone    []string         `json:"challenges_done"`
	ChallengesTimes   map[string]int64 `json:"challenges_times"`
	Points            int64            `json:"points"`
	IsAdmin           *bool            `json:"is_admin,omitempty"`
}

type memberDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Points      int64  `json:"points"`
	PictureID   string `json:"picture_id"`
}

type teamStandingDTO struct {
	TeamID  string      `json:"team_id"`
	Points  int64       `json:"points"`
	Pending []string    `json:"pending"`
	Members []memberDTO `json:"members"`
}

type leaderboardDTO struct {
	Teams      []teamStandingDTO `json:"teams"`
	ComputedAt int64             `json:"computed_at"`
}

func profileToDTO(p usecase.Profile, withRole bool) profileDTO {
	out := profileDTO{
		Username:          p.User.Username,
		DisplayName:       p.User.DisplayName,
		PictureID:         p.User.PictureID,
		ChallengesPending: nonNilStrings(p.User.ChallengesPending),
		ChallengesDone:    nonNilStrings(p.User.ChallengesDone),
		ChallengesTimes:   p.User.ChallengesTimes,
		Points:            p.Points,
	}
	if out.ChallengesTimes == nil {
		out.ChallengesTimes = map[string]int64{}
	}
	if withRole {
		isAdmin := p.IsAdmin
		out.IsAdmin = &isAdmin
	}
	return out
}

func leaderboardToDTO(teams []leaderboard.TeamStanding, computedAt int64) leaderboardDTO {
	out := leaderboardDTO{
		Teams:      make([]teamStandingDTO, 0, len(teams)),
		ComputedAt: computedAt,
	}
	for _, t := range teams {
		members := make([]memberDTO, 0, len(t.Members))
		for _, m := range t.Members {
			members = append(members, memberDTO{
				Username:    m.Username,
				DisplayName: m.DisplayName,
				Points:      m.Points,
				PictureID:   m.PictureID,
			})
		}
		out.Teams = append(out.Teams, teamStandingDTO{
			TeamID:  t.TeamID,
			Points:  t.Points,
			Pending: nonNilStrings(t.Pending),
			Members: members,
		})
	}
	return out
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
