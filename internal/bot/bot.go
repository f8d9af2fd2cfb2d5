// Package bot announces recorded matches on Discord and answers a few chat
// commands about the club.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"tennistinder/internal/back"

	"github.com/bwmarrin/discordgo"
)

// commandTimeout bounds the time spent answering a single command.
const commandTimeout = 10 * time.Second

type commandHandler func(ctx context.Context, m *discordgo.Message, args []string, w io.Writer) error

type Bot struct {
	back *back.Back

	startedAt time.Time
	dg        *discordgo.Session
	// channelID receives the notifications sent by the back.
	channelID string

	handlers map[string]commandHandler
}

func New(back *back.Back, token, channelID string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		back:      back,
		dg:        dg,
		channelID: channelID,
		startedAt: time.Now(),
	}

	dg.AddHandler(bot.handleMessage)
	bot.registerHandlers()

	return bot, nil
}

func (bot *Bot) registerHandlers() {
	bot.handlers = map[string]commandHandler{
		"!help":        bot.cmdHelp,
		"!leaderboard": bot.cmdLeaderboard,
		"!matches":     bot.cmdMatches,
		"!uptime":      bot.cmdUptime,
	}
}

// Serve connects to Discord and relays notifications to the announcement
// channel until ctx is done.
func (bot *Bot) Serve(ctx context.Context) error {
	log.Println("info: starting Discord bot")
	if err := bot.dg.Open(); err != nil {
		return fmt.Errorf("unable to connect to Discord: %w", err)
	}

	notifications := bot.back.GetNotificationsChan()
	for {
		select {
		case notif := <-notifications:
			if err := bot.sendNotification(notif); err != nil {
				log.Printf("error: unable to send notification: %s", err)
			}
		case <-ctx.Done():
			if err := bot.dg.Close(); err != nil {
				log.Printf("error: could not close Discord bot: %s", err)
			}
			log.Println("info: Discord bot closed")

			return nil
		}
	}
}

func (bot *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore webooks, self, bots, non-commands.
	if m.Author == nil || m.Author.ID == s.State.User.ID ||
		m.Author.Bot || !strings.HasPrefix(m.Content, "!") {
		return
	}

	log.Printf(
		"info: <%s(%s)@%s#%s> %s",
		m.Author.String(), m.Author.ID,
		m.GuildID, m.ChannelID,
		m.Content,
	)

	out := newChannelWriter(s, m.ChannelID)
	defer func() {
		if err := out.Flush(); err != nil {
			log.Printf("error: could not send message: %s", err)
		}
	}()

	defer func() {
		r := recover()
		if r != nil {
			out.Reset()
			fmt.Fprint(out, "Something went very wrong, please tell an organizer.")
			log.Print("panic: ", r)
			log.Print(string(debug.Stack()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := bot.dispatch(ctx, m.Message, out); err != nil {
		out.Reset()
		writeError(out, err)
		log.Printf("error: failed to process command: %s", err)
	}
}

func writeError(w io.Writer, err error) {
	fmt.Fprintln(w, "There was an error processing your command.")

	if errors.Is(err, errPublic("")) || errors.Is(err, back.ErrValidation) {
		fmt.Fprintf(w, "```%s\n```\nIf you need help, send `!help`.", err)
	} else {
		fmt.Fprint(w, "An organizer will check the logs.")
	}
}

func parseCommand(cmd string) (string, []string) {
	parts := strings.Fields(cmd)

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	default:
		return parts[0], parts[1:]
	}
}

func (bot *Bot) dispatch(ctx context.Context, m *discordgo.Message, w io.Writer) error {
	command, args := parseCommand(m.Content)
	handler, ok := bot.handlers[command]
	if !ok {
		return errPublic(fmt.Sprintf("invalid command: %v", m.Content))
	}

	return handler(ctx, m, args, w)
}

func (bot *Bot) cmdHelp(_ context.Context, _ *discordgo.Message, _ []string, w io.Writer) error {
	fmt.Fprint(w, strings.ReplaceAll(`Available commands:
'''
!help              # display this help message
!leaderboard GROUP # display the leaderboard of group A or B
!matches [N]       # list the N latest matches (default 5)
!uptime            # display for how long the bot has been running
'''`, "'''", "```"))

	return nil
}

func (bot *Bot) cmdUptime(_ context.Context, _ *discordgo.Message, _ []string, w io.Writer) error {
	fmt.Fprintf(w, "Up since %s (%s ago).", bot.startedAt.Format(time.RFC3339), time.Since(bot.startedAt).Truncate(time.Second))

	return nil
}
