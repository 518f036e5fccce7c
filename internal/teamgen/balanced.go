package teamgen

import (
	"github.com/wonny/squadpick/internal/contracts"
)

// balanced spreads attackers, midfielders and defenders one per team before
// filling the remaining slots at random. Goalkeepers only enter with the leftovers.
func (g *Generator) balanced(pool []contracts.Player, numTeams, perTeam int) [][]contracts.Player {
	buckets := make(map[contracts.Position][]contracts.Player, len(contracts.Positions))
	for _, p := range pool {
		if p.Position.Valid() {
			buckets[p.Position] = append(buckets[p.Position], p)
		}
	}
	for _, pos := range contracts.Positions {
		shuffle(g.src, buckets[pos])
	}

	teams := make([][]contracts.Player, numTeams)
	firstPass := []contracts.Position{
		contracts.PositionAttacker,
		contracts.PositionMidfielder,
		contracts.PositionDefender,
	}
	for i := range teams {
		teams[i] = make([]contracts.Player, 0, perTeam)
		for _, pos := range firstPass {
			if b := buckets[pos]; len(b) > 0 {
				teams[i] = append(teams[i], b[len(b)-1])
				buckets[pos] = b[:len(b)-1]
			}
		}
	}

	var leftovers []contracts.Player
	for _, pos := range contracts.Positions {
		leftovers = append(leftovers, buckets[pos]...)
	}
	shuffle(g.src, leftovers)

	idx := 0
	for len(leftovers) > 0 && anyOpen(teams, perTeam) {
		if len(teams[idx]) < perTeam {
			last := len(leftovers) - 1
			teams[idx] = append(teams[idx], leftovers[last])
			leftovers = leftovers[:last]
		}
		idx = (idx + 1) % numTeams
	}

	return teams
}

func anyOpen(teams [][]contracts.Player, perTeam int) bool {
	for _, t := range teams {
		if len(t) < perTeam {
			return true
		}
	}
	return false
}
