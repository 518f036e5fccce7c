package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/squadpick/internal/contracts"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Generate teams from the ready players in the store",
	Long: `Reads every player marked Ready and splits them into teams.

Strategies:
  balanced  one attacker, midfielder and defender per team first, then random
  ranked    snake draft by average rating

Example:
  go run ./cmd/squad teams --teams 2 --per-team 5
  go run ./cmd/squad teams --teams 3 --per-team 4 --strategy ranked --json
  go run ./cmd/squad teams --teams 2 --per-team 5 --seed 42`,
	RunE: runTeams,
}

var (
	teamsCount    int
	teamsPerTeam  int
	teamsStrategy string
	teamsSeed     uint64
	teamsJSON     bool
)

func init() {
	rootCmd.AddCommand(teamsCmd)

	teamsCmd.Flags().IntVar(&teamsCount, "teams", 2, "number of teams")
	teamsCmd.Flags().IntVar(&teamsPerTeam, "per-team", 5, "players per team")
	teamsCmd.Flags().StringVar(&teamsStrategy, "strategy", string(contracts.StrategyBalanced), "balanced or ranked")
	teamsCmd.Flags().Uint64Var(&teamsSeed, "seed", 0, "shuffle seed for reproducible teams (0 = random)")
	teamsCmd.Flags().BoolVar(&teamsJSON, "json", false, "print JSON instead of a table")
}

func runTeams(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context(), appOptions{generator: generatorFor(teamsSeed)})
	if err != nil {
		return err
	}
	defer a.Close()

	req := contracts.TeamRequest{
		NumTeams:       teamsCount,
		PlayersPerTeam: teamsPerTeam,
		Strategy:       contracts.Strategy(teamsStrategy),
	}

	teams, err := a.service.GenerateTeams(cmd.Context(), req)
	if err != nil {
		return err
	}

	if teamsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(teams)
	}
	printTeams(cmd.OutOrStdout(), teams)
	return nil
}

func printTeams(w io.Writer, teams contracts.TeamSet) {
	for i, team := range teams {
		fmt.Fprintf(w, "Team %d  (avg %.1f, %d players)\n", i+1, team.AvgRating, team.Size())
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, p := range team.Players {
			fmt.Fprintf(w, "  %-20s %-11s %4.1f\n", p.Player, p.Position, p.AvgRating)
		}
		fmt.Fprintln(w)
	}
}
