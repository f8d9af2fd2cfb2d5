package back

import (
	"bytes"
	"fmt"
	"log"
	"strings"
)

type NotificationType int

const (
	NotificationTypeMatchRecorded NotificationType = iota
	NotificationTypePlayersImported
)

// A Notification is a human readable event emitted after a commit, it is
// delivered on a best effort basis.
type Notification struct {
	Type NotificationType

	body bytes.Buffer
}

func (n *Notification) Printf(str string, args ...interface{}) (int, error) {
	return fmt.Fprintf(&n.body, str, args...)
}

func (n *Notification) String() string {
	return n.body.String()
}

func NotificationTypeName(typ NotificationType) string {
	switch typ {
	case NotificationTypeMatchRecorded:
		return "MatchRecorded"
	case NotificationTypePlayersImported:
		return "PlayersImported"
	default:
		return "invalid"
	}
}

// notify queues n without blocking, notifications are dropped when nobody
// consumes them.
func (b *Back) notify(n *Notification) {
	select {
	case b.notifications <- *n:
	default:
		log.Printf("warning: notification queue full, dropping %s", NotificationTypeName(n.Type))
	}
}

func newMatchRecordedNotification(res MatchResult) *Notification {
	n := &Notification{Type: NotificationTypeMatchRecorded}

	winners, losers := res.Side1Names, res.Side2Names
	winnerRating, loserRating := res.Side1Rating, res.Side2Rating
	if res.WinnerSide == SideTwo {
		winners, losers = losers, winners
		winnerRating, loserRating = loserRating, winnerRating
	}

	n.Printf( // nolint:errcheck
		"🎾 **%s** (%d) beat **%s** (%d) in group %s %s, %+d / %+d",
		strings.Join(winners, " & "), winnerRating,
		strings.Join(losers, " & "), loserRating,
		res.Group, res.Kind,
		res.WinnerDelta, res.LoserDelta,
	)

	return n
}

func newPlayersImportedNotification(report ImportReport) *Notification {
	n := &Notification{Type: NotificationTypePlayersImported}
	n.Printf("%d new players joined the club (%d already registered)", report.Created, report.Skipped) // nolint:errcheck

	return n
}
