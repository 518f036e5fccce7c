package contracts

// Strategy selects how the generator partitions the pool
type Strategy string

const (
	StrategyBalanced Strategy = "balanced" // spread positions, then fill randomly
	StrategyRanked   Strategy = "ranked"   // snake draft by rating
)

// MinBalancedTeamSize is the smallest team the balanced strategy accepts
const MinBalancedTeamSize = 3

// TeamRequest describes the shape of the teams to generate
type TeamRequest struct {
	NumTeams       int      `json:"numTeams"`
	PlayersPerTeam int      `json:"playersPerTeam"`
	Strategy       Strategy `json:"strategy"`
}

// Needed returns the number of players required to fill every slot
func (r TeamRequest) Needed() int {
	return r.NumTeams * r.PlayersPerTeam
}

// Team is an ordered list of players in assignment order
type Team struct {
	Players   []Player `json:"players"`
	AvgRating float64  `json:"avgRating"`
}

// Size returns the number of players on the team
func (t *Team) Size() int {
	return len(t.Players)
}

// TeamSet is the result of one generation call, exactly NumTeams long
type TeamSet []Team
