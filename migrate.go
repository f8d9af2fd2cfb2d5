package main

import (
	"fmt"
	"strconv"

	"tennistinder/internal/config"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				conf, err := config.Load()
				if err != nil {
					return err
				}
				st, err := openStore(conf)
				if err != nil {
					return err
				}
				defer st.Close()

				return st.Migrate()
			},
		},
		&cobra.Command{
			Use:   "down [N]",
			Short: "Revert the last N migrations, 1 by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n := 1
				if len(args) > 0 {
					var err error
					if n, err = strconv.Atoi(args[0]); err != nil || n < 1 {
						return fmt.Errorf("invalid number of migrations %q", args[0])
					}
				}

				conf, err := config.Load()
				if err != nil {
					return err
				}
				st, err := openStore(conf)
				if err != nil {
					return err
				}
				defer st.Close()

				return st.MigrateDown(n)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Display the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				conf, err := config.Load()
				if err != nil {
					return err
				}
				st, err := openStore(conf)
				if err != nil {
					return err
				}
				defer st.Close()

				version, dirty, err := st.SchemaVersion()
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d", version)
				if dirty {
					fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
				}
				fmt.Fprintln(cmd.OutOrStdout())

				return nil
			},
		},
	)

	return cmd
}
