package back

import (
	"context"
	"strings"

	"tennistinder/internal/util"

	"gopkg.in/guregu/null.v4"
)

type MatchKind string

const (
	MatchKindSingles MatchKind = "singles"
	MatchKindDoubles MatchKind = "doubles"
)

func ParseMatchKind(str string) (MatchKind, error) {
	switch k := MatchKind(strings.ToLower(strings.TrimSpace(str))); k {
	case MatchKindSingles, MatchKindDoubles:
		return k, nil
	default:
		return "", newShapeError(RuleInvalidKind, "invalid match kind %q, expected singles or doubles", str)
	}
}

// PlayersPerSide is 1 for singles and 2 for doubles.
func (k MatchKind) PlayersPerSide() int {
	if k == MatchKindDoubles {
		return 2
	}

	return 1
}

// Side designates one of the two opposing sides of a match.
type Side int

const (
	SideOne Side = 1
	SideTwo Side = 2
)

func (s Side) Valid() bool {
	return s == SideOne || s == SideTwo
}

func (s Side) Other() Side {
	if s == SideOne {
		return SideTwo
	}

	return SideOne
}

// A Match is a recorded result, players are referenced directly. Team
// references are only set when the match was recorded from persisted teams.
type Match struct {
	ID    int64           `db:"id" json:"id"`
	Ref   util.UUIDAsBlob `db:"ref" json:"ref"`
	Kind  MatchKind       `db:"kind" json:"kind"`
	Group Group           `db:"group_name" json:"group"`

	Side1Player1ID int64    `db:"side1_player1_id" json:"side1_player1_id"`
	Side1Player2ID null.Int `db:"side1_player2_id" json:"side1_player2_id"`
	Side2Player1ID int64    `db:"side2_player1_id" json:"side2_player1_id"`
	Side2Player2ID null.Int `db:"side2_player2_id" json:"side2_player2_id"`
	Side1TeamID    null.Int `db:"side1_team_id" json:"side1_team_id"`
	Side2TeamID    null.Int `db:"side2_team_id" json:"side2_team_id"`

	WinnerSide   null.Int             `db:"winner_side" json:"winner_side"`
	RatingChange null.Int             `db:"rating_change" json:"rating_change"`
	CreatedAt    util.TimeAsTimestamp `db:"created_at" json:"created_at"`
}

// MatchView is a Match with its participants names resolved.
type MatchView struct {
	Match
	Side1Player1Name string      `db:"side1_player1_name" json:"side1_player1_name"`
	Side1Player2Name null.String `db:"side1_player2_name" json:"side1_player2_name"`
	Side2Player1Name string      `db:"side2_player1_name" json:"side2_player1_name"`
	Side2Player2Name null.String `db:"side2_player2_name" json:"side2_player2_name"`
}

func newMatch(group Group, side1, side2 []int64) Match {
	m := Match{
		Ref:            util.NewUUIDAsBlob(),
		Kind:           MatchKindSingles,
		Group:          group,
		Side1Player1ID: side1[0],
		Side2Player1ID: side2[0],
		CreatedAt:      util.NowAsTimestamp(),
	}

	if len(side1) > 1 {
		m.Kind = MatchKindDoubles
		m.Side1Player2ID = null.IntFrom(side1[1])
		m.Side2Player2ID = null.IntFrom(side2[1])
	}

	return m
}

// Names returns the names of the players of a side.
func (m MatchView) Names(side Side) []string {
	first, second := m.Side1Player1Name, m.Side1Player2Name
	if side == SideTwo {
		first, second = m.Side2Player1Name, m.Side2Player2Name
	}

	if second.Valid {
		return []string{first, second.String}
	}

	return []string{first}
}

func (b *Back) ListMatches(ctx context.Context, limit int) ([]MatchView, error) {
	var ret []MatchView
	if err := b.transaction(ctx, "list matches", func(tx Tx) (err error) {
		ret, err = tx.GetMatches(limit)
		return err
	}); err != nil {
		return nil, err
	}

	return ret, nil
}
