package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"tennistinder/internal/back"
	"tennistinder/internal/config"
	"tennistinder/internal/store"

	"github.com/spf13/cobra"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	root := &cobra.Command{
		Use:   "tennistinder",
		Short: "Tennis Tinder organizes the matches of a tennis club and rates its players",
		Long: `Tennis Tinder tracks the players of a tennis club split in two skill
groups, records singles and doubles results and keeps an ELO rating for every
player.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		serveCmd(),
		migrateCmd(),
		importCmd(),
		exportCmd(),
		fixturesCmd(),
		configInitCmd(),
		versionCmd(),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the current version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Tennis Tinder %s\n", Version)
		},
	}
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config:init",
		Short: "Write the current configuration, environment included, to the user config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}

			path, err := conf.Write()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)

			return nil
		},
	}
}

func openStore(conf *config.Config) (*store.Store, error) {
	return store.Open(conf.DBDriver, conf.DBDSN)
}

type backCallback func(ctx context.Context, conf *config.Config, b *back.Back) error

// withBack loads the configuration, migrates the database and runs cb with a
// ready to use Back.
func withBack(ctx context.Context, cb backCallback) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	st, err := openStore(conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("warning: unable to close database: %s", err)
		}
	}()

	if err := st.Migrate(); err != nil {
		return err
	}

	return cb(ctx, conf, back.New(st, conf.KFactor))
}
