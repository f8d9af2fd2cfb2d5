// Package rating implements the ELO arithmetic used to rate players after
// each match. Every function here is pure and total over its inputs.
package rating

import (
	"math"
)

const (
	// DefaultKFactor is the maximum rating swing of a single match.
	DefaultKFactor = 32

	// InitialRating is the rating given to newly created players.
	InitialRating = 1200

	// eloScale is the rating difference at which the stronger side is
	// expected to win ten times more often.
	eloScale = 400.0

	competitivenessThreshold = 200
)

// Change holds the rating deltas to apply to each side of a match.
// WinnerDelta is never negative and LoserDelta is never positive.
type Change struct {
	WinnerDelta int `json:"winner_delta"`
	LoserDelta  int `json:"loser_delta"`
}

// ComputeChange returns the deltas to apply after a side rated winner beat a
// side rated loser. A non-positive k uses DefaultKFactor.
func ComputeChange(winner, loser, k int) Change {
	if k <= 0 {
		k = DefaultKFactor
	}

	expectedWinner := WinProbability(winner, loser)
	expectedLoser := 1 - expectedWinner

	return Change{
		WinnerDelta: Round(float64(k) * (1 - expectedWinner)),
		LoserDelta:  Round(float64(k) * (0 - expectedLoser)),
	}
}

// WinProbability is the expected score of a side rated a against a side
// rated b.
func WinProbability(a, b int) float64 {
	return 1 / (1 + math.Pow(10, float64(b-a)/eloScale))
}

// Competitiveness scores how close two ratings are, from 100 (equal) down to
// 0 (200 points apart or more).
func Competitiveness(a, b int) int {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	if diff >= competitivenessThreshold {
		return 0
	}

	return Round(100 * (1 - float64(diff)/competitivenessThreshold))
}

// Round rounds half up, -7.5 gives -7 and 7.5 gives 8.
// All rating arithmetic goes through it so results stay consistent.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// TeamRating is the rounded mean of the given ratings, 0 if there are none.
func TeamRating(ratings ...int) int {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, v := range ratings {
		sum += v
	}

	return Round(float64(sum) / float64(len(ratings)))
}
