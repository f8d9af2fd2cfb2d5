package back

import (
	"context"

	"tennistinder/internal/rating"
)

// Preview estimates a match outcome without recording anything.
type Preview struct {
	Side1Rating     int           `json:"side1_rating"`
	Side2Rating     int           `json:"side2_rating"`
	Side1WinChance  float64       `json:"side1_win_probability"`
	Competitiveness int           `json:"competitiveness"`
	Label           rating.Label  `json:"competitiveness_label"`
	IfSide1Wins     rating.Change `json:"if_side1_wins"`
	IfSide2Wins     rating.Change `json:"if_side2_wins"`
	KFactor         int           `json:"k_factor"`
}

func ComputePreview(side1Rating, side2Rating, kFactor int) Preview {
	if kFactor <= 0 {
		kFactor = rating.DefaultKFactor
	}
	competitiveness := rating.Competitiveness(side1Rating, side2Rating)

	return Preview{
		Side1Rating:     side1Rating,
		Side2Rating:     side2Rating,
		Side1WinChance:  rating.WinProbability(side1Rating, side2Rating),
		Competitiveness: competitiveness,
		Label:           rating.CompetitivenessLabel(competitiveness),
		IfSide1Wins:     rating.ComputeChange(side1Rating, side2Rating, kFactor),
		IfSide2Wins:     rating.ComputeChange(side2Rating, side1Rating, kFactor),
		KFactor:         kFactor,
	}
}

// Preview resolves the players of both sides and previews their match.
func (b *Back) Preview(ctx context.Context, side1, side2 []int64) (Preview, error) {
	if err := validateSides(side1, side2, SideOne); err != nil {
		return Preview{}, err
	}

	var ret Preview
	if err := b.transaction(ctx, "preview match", func(tx Tx) error {
		players1, err := loadPlayers(tx, side1)
		if err != nil {
			return err
		}
		players2, err := loadPlayers(tx, side2)
		if err != nil {
			return err
		}
		if _, err := ensureSameGroup(append(append([]Player{}, players1...), players2...)); err != nil {
			return err
		}

		ret = ComputePreview(teamRatingOf(players1), teamRatingOf(players2), b.kFactor)

		return nil
	}); err != nil {
		return Preview{}, err
	}

	return ret, nil
}
