package leaderboard

// MemberPoints is the public projection of a team member.
type MemberPoints struct {
	Username    string
	DisplayName string
	Points      int64
	PictureID   string
}

// TeamStanding is a team with derived points and projected members.
type TeamStanding struct {
	TeamID  string
	Points  int64
	Pending []string
	Members []MemberPoints
}

// Board is one computed leaderboard and the epoch second it was computed at.
type Board struct {
	Teams      []TeamStanding
	ComputedAt int64
}
