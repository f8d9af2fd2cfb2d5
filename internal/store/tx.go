package store

import (
	"database/sql"
	"fmt"

	"tennistinder/internal/back"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"
)

var playerColumns = []string{
	"id", "name", "group_name", "rating", "wins", "losses", "matches_played", "created_at",
}

// sqlTx implements back.Tx over a sqlx transaction.
type sqlTx struct {
	tx *sqlx.Tx
	sb squirrel.StatementBuilderType
}

func (t *sqlTx) get(dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}

	return t.tx.Get(dest, query, args...)
}

func (t *sqlTx) selectAll(dest interface{}, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}

	return t.tx.Select(dest, query, args...)
}

// exec runs q and fails with sql.ErrNoRows if it did not affect any row.
func (t *sqlTx) exec(q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}

	res, err := t.tx.Exec(query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (t *sqlTx) insert(table string, values map[string]interface{}) (int64, error) {
	query, args, err := t.sb.Insert(table).
		SetMap(values).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := t.tx.QueryRowx(query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("unable to insert into %s: %w", table, err)
	}

	return id, nil
}

func (t *sqlTx) GetPlayer(id int64) (back.Player, error) {
	var ret back.Player
	err := t.get(&ret, t.sb.Select(playerColumns...).From("players").Where(squirrel.Eq{"id": id}).Limit(1))

	return ret, err
}

func (t *sqlTx) GetPlayersByID(ids []int64) ([]back.Player, error) {
	ret := []back.Player{}
	if len(ids) == 0 {
		return ret, nil
	}

	// squirrel expands slices in Eq to an IN list.
	err := t.selectAll(&ret, t.sb.Select(playerColumns...).From("players").Where(squirrel.Eq{"id": ids}))

	return ret, err
}

func (t *sqlTx) GetPlayers(group back.Group) ([]back.Player, error) {
	q := t.sb.Select(playerColumns...).From("players").OrderBy("rating DESC", "name ASC")
	if group != "" {
		q = q.Where(squirrel.Eq{"group_name": group})
	}

	ret := []back.Player{}
	err := t.selectAll(&ret, q)

	return ret, err
}

func (t *sqlTx) GetPlayerByName(name string, group back.Group) (back.Player, error) {
	var ret back.Player
	err := t.get(&ret, t.sb.Select(playerColumns...).From("players").
		Where(squirrel.Eq{"name": name, "group_name": group}).
		Limit(1),
	)

	return ret, err
}

func (t *sqlTx) InsertPlayer(p *back.Player) error {
	id, err := t.insert("players", map[string]interface{}{
		"name":           p.Name,
		"group_name":     p.Group,
		"rating":         p.Rating,
		"wins":           p.Wins,
		"losses":         p.Losses,
		"matches_played": p.MatchesPlayed,
		"created_at":     p.CreatedAt,
	})
	if err != nil {
		return err
	}

	p.ID = id

	return nil
}

func (t *sqlTx) ApplyPlayerResult(id int64, delta int, won bool) error {
	wins, losses := 0, 1
	if won {
		wins, losses = 1, 0
	}

	return t.exec(t.sb.Update("players").
		Set("rating", squirrel.Expr("rating + ?", delta)).
		Set("wins", squirrel.Expr("wins + ?", wins)).
		Set("losses", squirrel.Expr("losses + ?", losses)).
		Set("matches_played", squirrel.Expr("matches_played + 1")).
		Where(squirrel.Eq{"id": id}),
	)
}

func (t *sqlTx) InsertTeam(team *back.Team) error {
	id, err := t.insert("teams", map[string]interface{}{
		"player1_id": team.Player1ID,
		"player2_id": team.Player2ID,
		"rating":     team.Rating,
		"active":     team.Active,
		"created_at": team.CreatedAt,
	})
	if err != nil {
		return err
	}

	team.ID = id

	return nil
}

func (t *sqlTx) selectTeamViews() squirrel.SelectBuilder {
	return t.sb.Select(
		"t.id", "t.player1_id", "t.player2_id", "t.rating", "t.active", "t.created_at",
		"p1.group_name", "p1.name AS player1_name", "p2.name AS player2_name",
	).
		From("teams t").
		Join("players p1 ON p1.id = t.player1_id").
		LeftJoin("players p2 ON p2.id = t.player2_id")
}

func (t *sqlTx) GetTeam(id int64) (back.TeamView, error) {
	var ret back.TeamView
	err := t.get(&ret, t.selectTeamViews().Where(squirrel.Eq{"t.id": id}))

	return ret, err
}

func (t *sqlTx) GetTeams() ([]back.TeamView, error) {
	ret := []back.TeamView{}
	err := t.selectAll(&ret, t.selectTeamViews().OrderBy("t.active DESC", "t.rating DESC", "t.id ASC"))

	return ret, err
}

func (t *sqlTx) FindTeam(player1ID int64, player2ID null.Int) (back.Team, error) {
	var where squirrel.Sqlizer = squirrel.Eq{"player1_id": player1ID, "player2_id": nil}
	if player2ID.Valid {
		where = squirrel.Or{
			squirrel.Eq{"player1_id": player1ID, "player2_id": player2ID.Int64},
			squirrel.Eq{"player1_id": player2ID.Int64, "player2_id": player1ID},
		}
	}

	var ret back.Team
	err := t.get(&ret, t.sb.
		Select("id", "player1_id", "player2_id", "rating", "active", "created_at").
		From("teams").
		Where(where).
		OrderBy("id ASC").
		Limit(1),
	)

	return ret, err
}

func (t *sqlTx) UpdateTeamRating(id int64, rating int) error {
	return t.exec(t.sb.Update("teams").Set("rating", rating).Where(squirrel.Eq{"id": id}))
}

func (t *sqlTx) SetTeamActive(id int64, active bool) error {
	return t.exec(t.sb.Update("teams").Set("active", active).Where(squirrel.Eq{"id": id}))
}

func (t *sqlTx) InsertMatch(m *back.Match) error {
	id, err := t.insert("matches", map[string]interface{}{
		"ref":              m.Ref,
		"kind":             m.Kind,
		"group_name":       m.Group,
		"side1_player1_id": m.Side1Player1ID,
		"side1_player2_id": m.Side1Player2ID,
		"side2_player1_id": m.Side2Player1ID,
		"side2_player2_id": m.Side2Player2ID,
		"side1_team_id":    m.Side1TeamID,
		"side2_team_id":    m.Side2TeamID,
		"winner_side":      m.WinnerSide,
		"rating_change":    m.RatingChange,
		"created_at":       m.CreatedAt,
	})
	if err != nil {
		return err
	}

	m.ID = id

	return nil
}

func (t *sqlTx) SetMatchResult(id int64, winner back.Side, ratingChange int) error {
	return t.exec(t.sb.Update("matches").SetMap(map[string]interface{}{
		"winner_side":   int(winner),
		"rating_change": ratingChange,
	}).Where(squirrel.Eq{"id": id}))
}

func (t *sqlTx) GetMatches(limit int) ([]back.MatchView, error) {
	q := t.sb.Select(
		"m.id", "m.ref", "m.kind", "m.group_name",
		"m.side1_player1_id", "m.side1_player2_id", "m.side2_player1_id", "m.side2_player2_id",
		"m.side1_team_id", "m.side2_team_id", "m.winner_side", "m.rating_change", "m.created_at",
		"s11.name AS side1_player1_name", "s12.name AS side1_player2_name",
		"s21.name AS side2_player1_name", "s22.name AS side2_player2_name",
	).
		From("matches m").
		Join("players s11 ON s11.id = m.side1_player1_id").
		LeftJoin("players s12 ON s12.id = m.side1_player2_id").
		Join("players s21 ON s21.id = m.side2_player1_id").
		LeftJoin("players s22 ON s22.id = m.side2_player2_id").
		OrderBy("m.created_at DESC", "m.id DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	ret := []back.MatchView{}
	err := t.selectAll(&ret, q)

	return ret, err
}
