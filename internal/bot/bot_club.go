package bot

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tennistinder/internal/back"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultMatchesCount = 5
	maxMatchesCount     = 20
	// Discord messages are capped, longer leaderboards are cut.
	maxLeaderboardLines = 25
)

func (bot *Bot) cmdLeaderboard(ctx context.Context, _ *discordgo.Message, args []string, w io.Writer) error {
	if len(args) != 1 {
		return errPublic("expected a group: `!leaderboard A`")
	}

	group, err := back.ParseGroup(args[0])
	if err != nil {
		return err
	}

	leaderboard, err := bot.back.GetLeaderboard(ctx, group)
	if err != nil {
		return err
	}

	writeLeaderboard(w, group, leaderboard)

	return nil
}

func writeLeaderboard(w io.Writer, group back.Group, leaderboard []back.LeaderboardEntry) {
	if len(leaderboard) == 0 {
		fmt.Fprintf(w, "There is no player in group %s yet.", group)
		return
	}

	fmt.Fprintf(w, "**Group %s leaderboard**\n```\n", group)
	for k, v := range leaderboard {
		if k >= maxLeaderboardLines {
			fmt.Fprintf(w, "… and %d more\n", len(leaderboard)-k)
			break
		}

		fmt.Fprintf(w, "%3d. %-20s %4d  %d-%d\n", v.Rank, v.Name, v.Rating, v.Wins, v.Losses)
	}
	fmt.Fprint(w, "```")
}

func (bot *Bot) cmdMatches(ctx context.Context, _ *discordgo.Message, args []string, w io.Writer) error {
	count := defaultMatchesCount
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > maxMatchesCount {
			return errPublic(fmt.Sprintf("expected a number of matches between 1 and %d", maxMatchesCount))
		}
		count = n
	}

	matches, err := bot.back.ListMatches(ctx, count)
	if err != nil {
		return err
	}

	writeMatches(w, matches)

	return nil
}

func writeMatches(w io.Writer, matches []back.MatchView) {
	if len(matches) == 0 {
		fmt.Fprint(w, "No match has been recorded yet.")
		return
	}

	for _, v := range matches {
		winner := back.Side(v.WinnerSide.Int64)
		fmt.Fprintf(w, "%s, group %s: **%s** beat %s (%+d)\n",
			v.CreatedAt.Time().Format("2006-01-02"),
			v.Group,
			strings.Join(v.Names(winner), " & "),
			strings.Join(v.Names(winner.Other()), " & "),
			v.RatingChange.Int64,
		)
	}
}
