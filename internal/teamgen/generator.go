package teamgen

import (
	"math"

	"github.com/wonny/squadpick/internal/contracts"
)

// Generator partitions a candidate pool into teams
// ⭐ SSOT: 팀 편성 로직은 여기서만
type Generator struct {
	src Source
}

var _ contracts.TeamGenerator = (*Generator)(nil)

// New creates a generator drawing randomness from src.
// A nil src uses the runtime's random source.
func New(src Source) *Generator {
	if src == nil {
		src = runtimeSource{}
	}
	return &Generator{src: src}
}

// Generate partitions pool into req.NumTeams teams using req.Strategy.
// The pool is never modified. Request errors are reported before the pool is inspected.
func (g *Generator) Generate(pool []contracts.Player, req contracts.TeamRequest) (contracts.TeamSet, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if needed := req.Needed(); len(pool) < needed {
		return nil, &InsufficientPlayersError{Needed: needed, Available: len(pool)}
	}

	var teams [][]contracts.Player
	switch req.Strategy {
	case contracts.StrategyBalanced:
		teams = g.balanced(pool, req.NumTeams, req.PlayersPerTeam)
	case contracts.StrategyRanked:
		teams = ranked(pool, req.NumTeams, req.PlayersPerTeam)
	}

	set := make(contracts.TeamSet, len(teams))
	for i, members := range teams {
		set[i] = contracts.Team{
			Players:   members,
			AvgRating: averageOf(members),
		}
	}
	return set, nil
}

func validate(req contracts.TeamRequest) error {
	if req.NumTeams <= 0 {
		return &InvalidRequestError{Field: "numTeams", Message: "must be positive"}
	}
	if req.PlayersPerTeam <= 0 {
		return &InvalidRequestError{Field: "playersPerTeam", Message: "must be positive"}
	}
	// numTeams*playersPerTeam must fit in an int
	if req.NumTeams > math.MaxInt/req.PlayersPerTeam {
		return &InvalidRequestError{Field: "numTeams", Message: "is too large"}
	}
	switch req.Strategy {
	case contracts.StrategyBalanced:
		if req.PlayersPerTeam < contracts.MinBalancedTeamSize {
			return &InvalidRequestError{Field: "playersPerTeam", Message: "must be at least 3 for balanced teams"}
		}
	case contracts.StrategyRanked:
	default:
		return &InvalidRequestError{Field: "strategy", Message: "must be balanced or ranked"}
	}
	return nil
}

func averageOf(members []contracts.Player) float64 {
	if len(members) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range members {
		sum += p.AvgRating
	}
	return contracts.RoundTenth(sum / float64(len(members)))
}
