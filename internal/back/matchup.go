package back

import (
	"context"
)

// MatchupRequest describes the pool to draw a random match from.
// An empty Present set means every player of the group is present.
type MatchupRequest struct {
	Group   Group     `json:"group"`
	Kind    MatchKind `json:"kind"`
	Present []int64   `json:"present"`
}

// A Matchup is a proposed, unrecorded, match.
type Matchup struct {
	Kind    MatchKind `json:"kind"`
	Group   Group     `json:"group"`
	Side1   []Player  `json:"side1"`
	Side2   []Player  `json:"side2"`
	Preview Preview   `json:"preview"`
}

// GenerateMatchup draws uniformly at random, without replacement, the players
// of a match among the present players of a group.
func (b *Back) GenerateMatchup(ctx context.Context, req MatchupRequest) (Matchup, error) {
	group, err := ParseGroup(string(req.Group))
	if err != nil {
		return Matchup{}, err
	}
	kind, err := ParseMatchKind(string(req.Kind))
	if err != nil {
		return Matchup{}, err
	}

	var players []Player
	if err := b.transaction(ctx, "generate matchup", func(tx Tx) (err error) {
		players, err = tx.GetPlayers(group)
		return err
	}); err != nil {
		return Matchup{}, err
	}

	pool := filterPresent(players, req.Present)
	perSide := kind.PlayersPerSide()
	if len(pool) < 2*perSide {
		return Matchup{}, newRuleError(
			RuleNotEnoughPlayers,
			"not enough players present in group %s for %s, need %d got %d",
			group, kind, 2*perSide, len(pool),
		)
	}

	drawn := b.sample(pool, 2*perSide)
	side1, side2 := drawn[:perSide], drawn[perSide:]

	return Matchup{
		Kind:  kind,
		Group: group,
		Side1: side1,
		Side2: side2,
		Preview: ComputePreview(
			teamRatingOf(side1),
			teamRatingOf(side2),
			b.kFactor,
		),
	}, nil
}

// filterPresent keeps the players whose ID is in present, all of them if
// present is empty. Unknown IDs are ignored.
func filterPresent(players []Player, present []int64) []Player {
	if len(present) == 0 {
		return players
	}

	set := make(map[int64]struct{}, len(present))
	for _, v := range present {
		set[v] = struct{}{}
	}

	ret := make([]Player, 0, len(present))
	for _, v := range players {
		if _, ok := set[v.ID]; ok {
			ret = append(ret, v)
		}
	}

	return ret
}

// sample picks n players from pool, each draw removes the picked player.
// pool is left untouched.
func (b *Back) sample(pool []Player, n int) []Player {
	b.randMu.Lock()
	defer b.randMu.Unlock()

	remaining := make([]Player, len(pool))
	copy(remaining, pool)

	ret := make([]Player, 0, n)
	for len(ret) < n && len(remaining) > 0 {
		i := b.rand.Intn(len(remaining))
		ret = append(ret, remaining[i])
		remaining = removePlayer(remaining, i)
	}

	return ret
}

func removePlayer(players []Player, i int) []Player {
	return players[:i+copy(players[i:], players[i+1:])]
}
