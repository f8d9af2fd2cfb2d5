package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tennistinder/internal/back"
	"tennistinder/internal/bot"
	"tennistinder/internal/config"
	"tennistinder/internal/web"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the Discord announcer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBack(cmd.Context(), serve)
		},
	}
}

func serve(ctx context.Context, conf *config.Config, b *back.Back) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	server := web.NewServer(b, conf)
	g.Go(func() error { return server.Serve(ctx) })

	if conf.DiscordToken != "" && conf.DiscordChannelID != "" {
		announcer, err := bot.New(b, conf.DiscordToken, conf.DiscordChannelID)
		if err != nil {
			stop()
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return announcer.Serve(ctx) })
	} else {
		log.Print("info: no Discord token or channel, notifications will only be logged")
		g.Go(func() error { return logNotifications(ctx, b) })
	}

	err := g.Wait()
	log.Print("info: shutdown complete")

	return err
}

// logNotifications drains the notification queue when no bot consumes it.
func logNotifications(ctx context.Context, b *back.Back) error {
	notifications := b.GetNotificationsChan()
	for {
		select {
		case notif := <-notifications:
			log.Printf("info: %s: %s", back.NotificationTypeName(notif.Type), notif.String())
		case <-ctx.Done():
			return nil
		}
	}
}
