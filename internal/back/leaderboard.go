package back

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type LeaderboardEntry struct {
	Rank int `json:"rank"`
	Player
	WinRate float64 `json:"win_rate"`
}

// GetLeaderboard ranks the players of a group by rating, players sharing a
// rating share a rank.
func (b *Back) GetLeaderboard(ctx context.Context, group Group) ([]LeaderboardEntry, error) {
	players, err := b.ListPlayers(ctx, group)
	if err != nil {
		return nil, err
	}

	return rankPlayers(players), nil
}

// rankPlayers expects players sorted by descending rating.
func rankPlayers(players []Player) []LeaderboardEntry {
	ret := make([]LeaderboardEntry, len(players))
	for k, v := range players {
		rank := k + 1
		if k > 0 && v.Rating == players[k-1].Rating {
			rank = ret[k-1].Rank
		}

		ret[k] = LeaderboardEntry{
			Rank:    rank,
			Player:  v,
			WinRate: v.WinRate(),
		}
	}

	return ret
}

// WriteLeaderboardXLSX writes a spreadsheet with one leaderboard sheet per
// group.
func (b *Back) WriteLeaderboardXLSX(ctx context.Context, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for k, group := range Groups() {
		leaderboard, err := b.GetLeaderboard(ctx, group)
		if err != nil {
			return err
		}

		sheet := "Group " + string(group)
		if k == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		if err := writeLeaderboardSheet(f, sheet, leaderboard); err != nil {
			return fmt.Errorf("unable to write sheet %s: %w", sheet, err)
		}
	}

	return f.Write(w)
}

func writeLeaderboardSheet(f *excelize.File, sheet string, entries []LeaderboardEntry) error {
	headers := []interface{}{"Rank", "Player", "Rating", "Matches", "Wins", "Losses", "Win rate %"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for k, v := range entries {
		cell, err := excelize.CoordinatesToCellName(1, k+2)
		if err != nil {
			return err
		}

		row := []interface{}{
			v.Rank, v.Name, v.Rating, v.MatchesPlayed, v.Wins, v.Losses,
			fmt.Sprintf("%.1f", v.WinRate),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return err
	}

	return f.SetColWidth(sheet, "C", "G", 10)
}
