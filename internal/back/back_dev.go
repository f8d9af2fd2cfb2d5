package back

import (
	"context"
	"strings"

	"gopkg.in/guregu/null.v4"
)

const fixtureRoster = `A,B
Ana Lopez,Marc Dubois
Ben Carter,Nina Petrova
Chloe Martin,Oscar Silva
David Kim,Paula Rossi
Emma Weber,Quentin Moreau
Felix Novak,Rita Costa
`

// LoadFixtures creates a small roster and one doubles team per group for
// quick testing during development.
func (b *Back) LoadFixtures(ctx context.Context) error {
	if _, err := b.ImportPlayers(ctx, strings.NewReader(fixtureRoster)); err != nil {
		return err
	}

	for _, group := range Groups() {
		players, err := b.ListPlayers(ctx, group)
		if err != nil {
			return err
		}
		if len(players) < 2 {
			continue
		}

		if _, err := b.CreateTeam(ctx, players[0].ID, null.IntFrom(players[1].ID)); err != nil && !isRule(err, RuleTeamExists) {
			return err
		}
	}

	return nil
}
