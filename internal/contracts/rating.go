package contracts

import "math"

// Rating is one player's score for another
// ⭐ SSOT: (rater, rated) 쌍마다 최대 1개
type Rating struct {
	ID            int `json:"id"`
	RaterID       int `json:"raterId"`
	RatedPlayerID int `json:"ratedPlayerId"`
	Score         int `json:"score"`
}

// Score bounds
const (
	MinScore = 1
	MaxScore = 10
)

// RoundTenth rounds to one decimal place, half away from zero
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// AverageRating returns the mean score received by playerID, rounded to one
// decimal. Unrated players average 0.
func AverageRating(playerID int, ratings []Rating) float64 {
	sum, n := 0, 0
	for _, r := range ratings {
		if r.RatedPlayerID == playerID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return RoundTenth(float64(sum) / float64(n))
}
