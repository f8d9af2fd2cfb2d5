package back

import (
	"context"
	"database/sql"
	"errors"

	"tennistinder/internal/rating"
	"tennistinder/internal/util"

	"gopkg.in/guregu/null.v4"
)

// A Team is a reusable pairing of players, a singles team has no second
// player. Its rating follows the rating of its members.
type Team struct {
	ID        int64                `db:"id" json:"id"`
	Player1ID int64                `db:"player1_id" json:"player1_id"`
	Player2ID null.Int             `db:"player2_id" json:"player2_id"`
	Rating    int                  `db:"rating" json:"rating"`
	Active    bool                 `db:"active" json:"active"`
	CreatedAt util.TimeAsTimestamp `db:"created_at" json:"created_at"`
}

// TeamView is a Team with its members names resolved.
type TeamView struct {
	Team
	Group       Group       `db:"group_name" json:"group"`
	Player1Name string      `db:"player1_name" json:"player1_name"`
	Player2Name null.String `db:"player2_name" json:"player2_name"`
}

func (t Team) Members() []int64 {
	if t.Player2ID.Valid {
		return []int64{t.Player1ID, t.Player2ID.Int64}
	}

	return []int64{t.Player1ID}
}

func (t Team) IsDoubles() bool {
	return t.Player2ID.Valid
}

func (b *Back) CreateTeam(ctx context.Context, player1ID int64, player2ID null.Int) (Team, error) {
	if player2ID.Valid && player2ID.Int64 == player1ID {
		return Team{}, newRuleError(RuleDuplicateParticipant, "a player can't team up with themselves")
	}

	team := Team{
		Player1ID: player1ID,
		Player2ID: player2ID,
		Active:    true,
		CreatedAt: util.NowAsTimestamp(),
	}

	if err := b.transaction(ctx, "create team", func(tx Tx) error {
		players, err := loadPlayers(tx, team.Members())
		if err != nil {
			return err
		}

		if _, err := ensureSameGroup(players); err != nil {
			return err
		}

		existing, err := tx.FindTeam(player1ID, player2ID)
		switch {
		case err == nil:
			return newRuleError(RuleTeamExists, "these players already form team #%d", existing.ID)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		team.Rating = rating.TeamRating(ratingsOf(players)...)

		return tx.InsertTeam(&team)
	}); err != nil {
		return Team{}, err
	}

	return team, nil
}

func (b *Back) GetTeam(ctx context.Context, id int64) (TeamView, error) {
	var ret TeamView
	if err := b.transaction(ctx, "get team", func(tx Tx) (err error) {
		ret, err = getTeam(tx, id)
		return err
	}); err != nil {
		return TeamView{}, err
	}

	return ret, nil
}

func (b *Back) ListTeams(ctx context.Context) ([]TeamView, error) {
	var ret []TeamView
	if err := b.transaction(ctx, "list teams", func(tx Tx) (err error) {
		ret, err = tx.GetTeams()
		return err
	}); err != nil {
		return nil, err
	}

	return ret, nil
}

// SetTeamActive toggles whether a team can still be used to record matches.
func (b *Back) SetTeamActive(ctx context.Context, id int64, active bool) (TeamView, error) {
	var ret TeamView
	if err := b.transaction(ctx, "set team active", func(tx Tx) error {
		if _, err := getTeam(tx, id); err != nil {
			return err
		}

		if err := tx.SetTeamActive(id, active); err != nil {
			return err
		}

		var err error
		ret, err = tx.GetTeam(id)

		return err
	}); err != nil {
		return TeamView{}, err
	}

	return ret, nil
}

func getTeam(tx Tx, id int64) (TeamView, error) {
	team, err := tx.GetTeam(id)
	if errors.Is(err, sql.ErrNoRows) {
		return TeamView{}, &NotFoundError{Entity: "team", ID: id}
	}

	return team, err
}

// refreshTeamRating updates the persisted team made of exactly members, if
// any, to the mean of the given ratings.
func refreshTeamRating(tx Tx, members []int64, ratings []int) error {
	player2ID := null.Int{}
	if len(members) > 1 {
		player2ID = null.IntFrom(members[1])
	}

	team, err := tx.FindTeam(members[0], player2ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	return tx.UpdateTeamRating(team.ID, rating.TeamRating(ratings...))
}
