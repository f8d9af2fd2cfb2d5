package back

import (
	"context"

	"gopkg.in/guregu/null.v4"
)

// Store opens transactions, the whole callback is committed or nothing is.
type Store interface {
	Transaction(ctx context.Context, cb func(Tx) error) error
}

// Tx is the set of storage operations available inside a transaction.
// Lookups of a single missing row return sql.ErrNoRows.
type Tx interface {
	GetPlayer(id int64) (Player, error)
	// GetPlayersByID returns the existing players among ids, in no
	// particular order.
	GetPlayersByID(ids []int64) ([]Player, error)
	// GetPlayers returns the players of a group, or all players if group is
	// empty, by descending rating.
	GetPlayers(group Group) ([]Player, error)
	GetPlayerByName(name string, group Group) (Player, error)
	InsertPlayer(p *Player) error
	// ApplyPlayerResult adds delta to the player rating and increments its
	// win or loss count along with its played matches.
	ApplyPlayerResult(id int64, delta int, won bool) error

	InsertTeam(t *Team) error
	GetTeam(id int64) (TeamView, error)
	GetTeams() ([]TeamView, error)
	// FindTeam returns the team made of the given members, in any order.
	FindTeam(player1ID int64, player2ID null.Int) (Team, error)
	UpdateTeamRating(id int64, rating int) error
	SetTeamActive(id int64, active bool) error

	InsertMatch(m *Match) error
	SetMatchResult(id int64, winner Side, ratingChange int) error
	// GetMatches returns the latest matches first, a non-positive limit
	// means no limit.
	GetMatches(limit int) ([]MatchView, error)
}
