package back

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tennistinder/internal/rating"
	"tennistinder/internal/util"
)

// Group is the skill partition a player belongs to, all players of a match
// must share it.
type Group string

const (
	GroupA Group = "A"
	GroupB Group = "B"
)

func Groups() []Group {
	return []Group{GroupA, GroupB}
}

// ParseGroup accepts a group name in any case.
func ParseGroup(str string) (Group, error) {
	switch g := Group(strings.ToUpper(strings.TrimSpace(str))); g {
	case GroupA, GroupB:
		return g, nil
	default:
		return "", newShapeError(RuleInvalidGroup, "invalid group %q, expected A or B", str)
	}
}

// A Player is a club member that can take part in matches.
type Player struct {
	ID            int64                `db:"id" json:"id"`
	Name          string               `db:"name" json:"name"`
	Group         Group                `db:"group_name" json:"group"`
	Rating        int                  `db:"rating" json:"rating"`
	Wins          int                  `db:"wins" json:"wins"`
	Losses        int                  `db:"losses" json:"losses"`
	MatchesPlayed int                  `db:"matches_played" json:"matches_played"`
	CreatedAt     util.TimeAsTimestamp `db:"created_at" json:"created_at"`
}

func NewPlayer(name string, group Group) Player {
	return Player{
		Name:      name,
		Group:     group,
		Rating:    rating.InitialRating,
		CreatedAt: util.NowAsTimestamp(),
	}
}

// WinRate is the percentage of matches won, 0 for players that never played.
func (p Player) WinRate() float64 {
	if p.MatchesPlayed == 0 {
		return 0
	}

	return 100 * float64(p.Wins) / float64(p.MatchesPlayed)
}

func (b *Back) ListPlayers(ctx context.Context, group Group) ([]Player, error) {
	var ret []Player
	if err := b.transaction(ctx, "list players", func(tx Tx) (err error) {
		ret, err = tx.GetPlayers(group)
		return err
	}); err != nil {
		return nil, err
	}

	return ret, nil
}

// loadPlayers returns the players for ids in the same order, failing with a
// NotFoundError on the first missing one.
func loadPlayers(tx Tx, ids []int64) ([]Player, error) {
	found, err := tx.GetPlayersByID(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]Player, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}

	ret := make([]Player, len(ids))
	for k, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{Entity: "player", ID: id}
		}
		ret[k] = p
	}

	return ret, nil
}

// ensureSameGroup checks all players share the group of the first one.
func ensureSameGroup(players []Player) (Group, error) {
	if len(players) == 0 {
		return "", nil
	}

	group := players[0].Group
	for _, v := range players[1:] {
		if v.Group != group {
			return "", newRuleError(
				RuleGroupMismatch,
				"%s (group %s) and %s (group %s) are not in the same group",
				players[0].Name, group, v.Name, v.Group,
			)
		}
	}

	return group, nil
}

func ratingsOf(players []Player) []int {
	ret := make([]int, len(players))
	for k, v := range players {
		ret[k] = v.Rating
	}

	return ret
}

func teamRatingOf(players []Player) int {
	return rating.TeamRating(ratingsOf(players)...)
}

func (b *Back) GetPlayer(ctx context.Context, id int64) (Player, error) {
	var ret Player
	if err := b.transaction(ctx, "get player", func(tx Tx) (err error) {
		ret, err = tx.GetPlayer(id)
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Entity: "player", ID: id}
		}

		return err
	}); err != nil {
		return Player{}, err
	}

	return ret, nil
}
