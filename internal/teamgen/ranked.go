package teamgen

import (
	"sort"

	"github.com/wonny/squadpick/internal/contracts"
)

// ranked snake-drafts the top numTeams*perTeam players by rating:
// 0..n-1, then n-1..0, and so on.
func ranked(pool []contracts.Player, numTeams, perTeam int) [][]contracts.Player {
	sorted := make([]contracts.Player, len(pool))
	copy(sorted, pool)
	// Stable so equal ratings keep input order
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgRating > sorted[j].AvgRating
	})
	selected := sorted[:numTeams*perTeam]

	teams := make([][]contracts.Player, numTeams)
	for i := range teams {
		teams[i] = make([]contracts.Player, 0, perTeam)
	}

	idx, dir := 0, 1
	for _, p := range selected {
		teams[idx] = append(teams[idx], p)
		idx += dir
		switch idx {
		case numTeams:
			dir = -1
			idx = numTeams - 1
		case -1:
			dir = 1
			idx = 0
		}
	}

	return teams
}
