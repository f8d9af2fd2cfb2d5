package back

import (
	"context"
	"log"

	"tennistinder/internal/rating"
	"tennistinder/internal/util"

	"gopkg.in/guregu/null.v4"
)

// MatchResult describes a freshly recorded match, side ratings are the ones
// before the match.
type MatchResult struct {
	MatchID     int64           `json:"match_id"`
	Ref         util.UUIDAsBlob `json:"ref"`
	Kind        MatchKind       `json:"kind"`
	Group       Group           `json:"group"`
	WinnerSide  Side            `json:"winner_side"`
	WinnerDelta int             `json:"winner_delta"`
	LoserDelta  int             `json:"loser_delta"`
	Side1Rating int             `json:"side1_rating"`
	Side2Rating int             `json:"side2_rating"`
	Side1Names  []string        `json:"side1_names"`
	Side2Names  []string        `json:"side2_names"`
}

// RecordMatch records the outcome of a match between two sides of one or two
// players and applies the resulting rating changes. Everything is written in
// a single transaction, invalid input is rejected before any write.
func (b *Back) RecordMatch(ctx context.Context, side1, side2 []int64, winner Side) (MatchResult, error) {
	if err := validateSides(side1, side2, winner); err != nil {
		return MatchResult{}, err
	}

	var ret MatchResult
	if err := b.transaction(ctx, "record match", func(tx Tx) (err error) {
		ret, err = b.record(tx, recordRequest{side1: side1, side2: side2, winner: winner})
		return err
	}); err != nil {
		return MatchResult{}, err
	}

	b.matchRecorded(ret)

	return ret, nil
}

// RecordTeamMatch records a match between two persisted teams, winnerTeamID
// must be one of them.
func (b *Back) RecordTeamMatch(ctx context.Context, team1ID, team2ID, winnerTeamID int64) (MatchResult, error) {
	if team1ID == team2ID {
		return MatchResult{}, newRuleError(RuleDuplicateTeam, "a team can't play against itself")
	}

	var winner Side
	switch winnerTeamID {
	case team1ID:
		winner = SideOne
	case team2ID:
		winner = SideTwo
	default:
		return MatchResult{}, newRuleError(
			RuleInvalidWinner,
			"winner team #%d is not one of the playing teams", winnerTeamID,
		)
	}

	var ret MatchResult
	if err := b.transaction(ctx, "record team match", func(tx Tx) error {
		team1, err := getTeam(tx, team1ID)
		if err != nil {
			return err
		}
		team2, err := getTeam(tx, team2ID)
		if err != nil {
			return err
		}

		for _, v := range []TeamView{team1, team2} {
			if !v.Active {
				return newRuleError(RuleInactiveTeam, "team #%d is inactive", v.ID)
			}
		}

		side1, side2 := team1.Members(), team2.Members()
		if err := validateSides(side1, side2, winner); err != nil {
			return err
		}

		ret, err = b.record(tx, recordRequest{
			side1:  side1,
			side2:  side2,
			winner: winner,
			team1:  null.IntFrom(team1ID),
			team2:  null.IntFrom(team2ID),
		})

		return err
	}); err != nil {
		return MatchResult{}, err
	}

	b.matchRecorded(ret)

	return ret, nil
}

// validateSides checks the request shape and participant uniqueness without
// touching the store.
func validateSides(side1, side2 []int64, winner Side) error {
	for k, v := range [][]int64{side1, side2} {
		if len(v) < 1 || len(v) > 2 {
			return newShapeError(RuleSideSize, "side %d must have 1 or 2 players, got %d", k+1, len(v))
		}
	}

	if len(side1) != len(side2) {
		return newShapeError(
			RuleSideArity,
			"both sides must have the same number of players, got %d and %d",
			len(side1), len(side2),
		)
	}

	if !winner.Valid() {
		return newRuleError(RuleInvalidWinner, "winner must be side 1 or 2, got %d", winner)
	}

	seen := make(map[int64]struct{}, len(side1)+len(side2))
	for _, side := range [][]int64{side1, side2} {
		for _, id := range side {
			if _, ok := seen[id]; ok {
				return newRuleError(RuleDuplicateParticipant, "player #%d appears more than once", id)
			}
			seen[id] = struct{}{}
		}
	}

	return nil
}

type recordRequest struct {
	side1, side2 []int64
	winner       Side
	team1, team2 null.Int
}

func (b *Back) record(tx Tx, req recordRequest) (MatchResult, error) {
	side1, err := loadPlayers(tx, req.side1)
	if err != nil {
		return MatchResult{}, err
	}
	side2, err := loadPlayers(tx, req.side2)
	if err != nil {
		return MatchResult{}, err
	}

	all := make([]Player, 0, len(side1)+len(side2))
	group, err := ensureSameGroup(append(append(all, side1...), side2...))
	if err != nil {
		return MatchResult{}, err
	}

	side1Rating := teamRatingOf(side1)
	side2Rating := teamRatingOf(side2)

	winners, losers := side1, side2
	winnerRating, loserRating := side1Rating, side2Rating
	if req.winner == SideTwo {
		winners, losers = side2, side1
		winnerRating, loserRating = side2Rating, side1Rating
	}

	change := rating.ComputeChange(winnerRating, loserRating, b.kFactor)

	match := newMatch(group, req.side1, req.side2)
	match.Side1TeamID, match.Side2TeamID = req.team1, req.team2
	if err := tx.InsertMatch(&match); err != nil {
		return MatchResult{}, err
	}
	if err := tx.SetMatchResult(match.ID, req.winner, change.WinnerDelta); err != nil {
		return MatchResult{}, err
	}

	if err := applyResult(tx, winners, change.WinnerDelta, true); err != nil {
		return MatchResult{}, err
	}
	if err := applyResult(tx, losers, change.LoserDelta, false); err != nil {
		return MatchResult{}, err
	}

	return MatchResult{
		MatchID:     match.ID,
		Ref:         match.Ref,
		Kind:        match.Kind,
		Group:       group,
		WinnerSide:  req.winner,
		WinnerDelta: change.WinnerDelta,
		LoserDelta:  change.LoserDelta,
		Side1Rating: side1Rating,
		Side2Rating: side2Rating,
		Side1Names:  namesOf(side1),
		Side2Names:  namesOf(side2),
	}, nil
}

// applyResult updates the players of one side and the team they form.
func applyResult(tx Tx, players []Player, delta int, won bool) error {
	ids := make([]int64, len(players))
	ratings := make([]int, len(players))

	for k, v := range players {
		if err := tx.ApplyPlayerResult(v.ID, delta, won); err != nil {
			return err
		}

		ids[k] = v.ID
		ratings[k] = v.Rating + delta
	}

	return refreshTeamRating(tx, ids, ratings)
}

func namesOf(players []Player) []string {
	ret := make([]string, len(players))
	for k, v := range players {
		ret[k] = v.Name
	}

	return ret
}

func (b *Back) matchRecorded(res MatchResult) {
	log.Printf(
		"info: recorded %s match #%d in group %s, side %d won (%+d/%+d)",
		res.Kind, res.MatchID, res.Group, res.WinnerSide, res.WinnerDelta, res.LoserDelta,
	)

	b.notify(newMatchRecordedNotification(res))
}
