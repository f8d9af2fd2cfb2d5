package bot // nolint:testpackage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tennistinder/internal/back"
	"tennistinder/internal/store"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

func createTestBot(t *testing.T) (*Bot, map[string]int64) {
	t.Helper()

	st, err := store.Open(store.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "test.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	b := back.New(st, 0)
	_, err = b.ImportPlayers(context.Background(), strings.NewReader("A\nAna\nBen\n"))
	require.NoError(t, err)

	players, err := b.ListPlayers(context.Background(), back.GroupA)
	require.NoError(t, err)
	ids := map[string]int64{}
	for _, v := range players {
		ids[v.Name] = v.ID
	}

	bot := &Bot{back: b}
	bot.registerHandlers()

	return bot, ids
}

func run(t *testing.T, bot *Bot, content string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	err := bot.dispatch(context.Background(), &discordgo.Message{Content: content}, &out)

	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("!matches   10 ")
	assert.Equal(t, "!matches", cmd)
	assert.Equal(t, []string{"10"}, args)

	cmd, args = parseCommand("")
	assert.Empty(t, cmd)
	assert.Nil(t, args)
}

func TestDispatch(t *testing.T) {
	bot, ids := createTestBot(t)

	_, err := run(t, bot, "!nope")
	assert.True(t, errors.Is(err, errPublic("")))

	out, err := run(t, bot, "!help")
	require.NoError(t, err)
	assert.Contains(t, out, "!leaderboard")

	out, err = run(t, bot, "!matches")
	require.NoError(t, err)
	assert.Equal(t, "No match has been recorded yet.", out)

	_, err = bot.back.RecordMatch(context.Background(), []int64{ids["Ben"]}, []int64{ids["Ana"]}, back.SideOne)
	require.NoError(t, err)

	out, err = run(t, bot, "!leaderboard a")
	require.NoError(t, err)
	assert.Contains(t, out, "Group A leaderboard")
	assert.Less(t, strings.Index(out, "Ben"), strings.Index(out, "Ana"))
	assert.Contains(t, out, "1216  1-0")

	out, err = run(t, bot, "!matches 1")
	require.NoError(t, err)
	assert.Contains(t, out, "**Ben** beat Ana (+16)")

	_, err = run(t, bot, "!leaderboard Z")
	assert.True(t, errors.Is(err, back.ErrValidation))

	_, err = run(t, bot, "!matches 500")
	assert.True(t, errors.Is(err, errPublic("")))
}

func TestWriteLeaderboardEmpty(t *testing.T) {
	var out bytes.Buffer
	writeLeaderboard(&out, back.GroupB, nil)
	assert.Equal(t, "There is no player in group B yet.", out.String())
}

func TestWriteMatchesDoubles(t *testing.T) {
	var out bytes.Buffer
	writeMatches(&out, []back.MatchView{{
		Match: back.Match{
			Group:        back.GroupB,
			WinnerSide:   null.IntFrom(2),
			RatingChange: null.IntFrom(12),
		},
		Side1Player1Name: "Ana",
		Side1Player2Name: null.StringFrom("Ben"),
		Side2Player1Name: "Chloe",
		Side2Player2Name: null.StringFrom("David"),
	}})

	assert.Contains(t, out.String(), "group B: **Chloe & David** beat Ana & Ben (+12)")
}

func TestWriteError(t *testing.T) {
	var out bytes.Buffer
	writeError(&out, errors.New("disk on fire"))
	assert.NotContains(t, out.String(), "disk on fire")

	out.Reset()
	writeError(&out, errPublic("invalid command: !x"))
	assert.Contains(t, out.String(), "invalid command: !x")
}

func TestChannelWriterWithoutChannel(t *testing.T) {
	w := newChannelWriter(nil, "")
	assert.Nil(t, w)

	n, err := w.Write([]byte("dropped"))
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, w.Flush())
}
