package bot

import (
	"errors"
	"fmt"

	"tennistinder/internal/back"
)

func (bot *Bot) sendNotification(notif back.Notification) error {
	switch notif.Type {
	case back.NotificationTypeMatchRecorded, back.NotificationTypePlayersImported:
	default:
		return fmt.Errorf("got unknown notification type: %d", notif.Type)
	}

	w := newChannelWriter(bot.dg, bot.channelID)
	if w == nil {
		return errors.New("no announcement channel configured")
	}

	fmt.Fprint(w, notif.String())

	return w.Flush()
}
