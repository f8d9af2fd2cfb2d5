package back // nolint:testpackage

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"gopkg.in/guregu/null.v4"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory Store, a failed transaction restores the state
// it had before the transaction started.
type fakeStore struct {
	players map[int64]Player
	teams   map[int64]Team
	matches []Match
	nextID  int64

	// writes counts every mutating call, even rolled back ones.
	writes int
	// failOn makes the named Tx method fail with errBoom.
	failOn string
}

func newFakeStore(players ...Player) *fakeStore {
	s := &fakeStore{
		players: map[int64]Player{},
		teams:   map[int64]Team{},
		nextID:  100,
	}

	for _, v := range players {
		s.players[v.ID] = v
	}

	return s
}

func (s *fakeStore) Transaction(_ context.Context, cb func(Tx) error) error {
	players := make(map[int64]Player, len(s.players))
	for k, v := range s.players {
		players[k] = v
	}
	teams := make(map[int64]Team, len(s.teams))
	for k, v := range s.teams {
		teams[k] = v
	}
	matches := append([]Match(nil), s.matches...)
	nextID := s.nextID

	if err := cb(fakeTx{s}); err != nil {
		s.players, s.teams, s.matches, s.nextID = players, teams, matches, nextID
		return err
	}

	return nil
}

type fakeTx struct {
	s *fakeStore
}

func (tx fakeTx) write(op string) error {
	tx.s.writes++
	if tx.s.failOn == op {
		return errBoom
	}

	return nil
}

func (tx fakeTx) id() int64 {
	tx.s.nextID++
	return tx.s.nextID
}

func (tx fakeTx) GetPlayer(id int64) (Player, error) {
	p, ok := tx.s.players[id]
	if !ok {
		return Player{}, sql.ErrNoRows
	}

	return p, nil
}

func (tx fakeTx) GetPlayersByID(ids []int64) ([]Player, error) {
	var ret []Player
	for _, id := range ids {
		if p, ok := tx.s.players[id]; ok {
			ret = append(ret, p)
		}
	}

	return ret, nil
}

func (tx fakeTx) GetPlayers(group Group) ([]Player, error) {
	ret := []Player{}
	for _, v := range tx.s.players {
		if group == "" || v.Group == group {
			ret = append(ret, v)
		}
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Rating != ret[j].Rating {
			return ret[i].Rating > ret[j].Rating
		}
		return ret[i].ID < ret[j].ID
	})

	return ret, nil
}

func (tx fakeTx) GetPlayerByName(name string, group Group) (Player, error) {
	for _, v := range tx.s.players {
		if v.Name == name && v.Group == group {
			return v, nil
		}
	}

	return Player{}, sql.ErrNoRows
}

func (tx fakeTx) InsertPlayer(p *Player) error {
	if err := tx.write("InsertPlayer"); err != nil {
		return err
	}

	p.ID = tx.id()
	tx.s.players[p.ID] = *p

	return nil
}

func (tx fakeTx) ApplyPlayerResult(id int64, delta int, won bool) error {
	if err := tx.write("ApplyPlayerResult"); err != nil {
		return err
	}

	p := tx.s.players[id]
	p.Rating += delta
	p.MatchesPlayed++
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
	tx.s.players[id] = p

	return nil
}

func (tx fakeTx) InsertTeam(t *Team) error {
	if err := tx.write("InsertTeam"); err != nil {
		return err
	}

	t.ID = tx.id()
	tx.s.teams[t.ID] = *t

	return nil
}

func (tx fakeTx) view(t Team) TeamView {
	p1 := tx.s.players[t.Player1ID]
	ret := TeamView{Team: t, Group: p1.Group, Player1Name: p1.Name}
	if t.Player2ID.Valid {
		ret.Player2Name = null.StringFrom(tx.s.players[t.Player2ID.Int64].Name)
	}

	return ret
}

func (tx fakeTx) GetTeam(id int64) (TeamView, error) {
	t, ok := tx.s.teams[id]
	if !ok {
		return TeamView{}, sql.ErrNoRows
	}

	return tx.view(t), nil
}

func (tx fakeTx) GetTeams() ([]TeamView, error) {
	ret := []TeamView{}
	for _, v := range tx.s.teams {
		ret = append(ret, tx.view(v))
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

func (tx fakeTx) FindTeam(player1ID int64, player2ID null.Int) (Team, error) {
	for _, v := range tx.s.teams {
		if v.Player2ID.Valid != player2ID.Valid {
			continue
		}

		if !player2ID.Valid && v.Player1ID == player1ID {
			return v, nil
		}

		if player2ID.Valid &&
			((v.Player1ID == player1ID && v.Player2ID.Int64 == player2ID.Int64) ||
				(v.Player1ID == player2ID.Int64 && v.Player2ID.Int64 == player1ID)) {
			return v, nil
		}
	}

	return Team{}, sql.ErrNoRows
}

func (tx fakeTx) UpdateTeamRating(id int64, rating int) error {
	if err := tx.write("UpdateTeamRating"); err != nil {
		return err
	}

	t := tx.s.teams[id]
	t.Rating = rating
	tx.s.teams[id] = t

	return nil
}

func (tx fakeTx) SetTeamActive(id int64, active bool) error {
	if err := tx.write("SetTeamActive"); err != nil {
		return err
	}

	t := tx.s.teams[id]
	t.Active = active
	tx.s.teams[id] = t

	return nil
}

func (tx fakeTx) InsertMatch(m *Match) error {
	if err := tx.write("InsertMatch"); err != nil {
		return err
	}

	m.ID = tx.id()
	tx.s.matches = append(tx.s.matches, *m)

	return nil
}

func (tx fakeTx) SetMatchResult(id int64, winner Side, ratingChange int) error {
	if err := tx.write("SetMatchResult"); err != nil {
		return err
	}

	for k := range tx.s.matches {
		if tx.s.matches[k].ID == id {
			tx.s.matches[k].WinnerSide = null.IntFrom(int64(winner))
			tx.s.matches[k].RatingChange = null.IntFrom(int64(ratingChange))
			return nil
		}
	}

	return sql.ErrNoRows
}

func (tx fakeTx) GetMatches(limit int) ([]MatchView, error) {
	ret := []MatchView{}
	for i := len(tx.s.matches) - 1; i >= 0; i-- {
		if limit > 0 && len(ret) >= limit {
			break
		}

		m := tx.s.matches[i]
		v := MatchView{
			Match:            m,
			Side1Player1Name: tx.s.players[m.Side1Player1ID].Name,
			Side2Player1Name: tx.s.players[m.Side2Player1ID].Name,
		}
		if m.Side1Player2ID.Valid {
			v.Side1Player2Name = null.StringFrom(tx.s.players[m.Side1Player2ID.Int64].Name)
			v.Side2Player2Name = null.StringFrom(tx.s.players[m.Side2Player2ID.Int64].Name)
		}
		ret = append(ret, v)
	}

	return ret, nil
}
