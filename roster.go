package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"tennistinder/internal/back"
	"tennistinder/internal/config"
	"tennistinder/internal/storage"

	"github.com/spf13/cobra"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import players from a CSV roster whose header names the groups (A,B)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBack(cmd.Context(), func(ctx context.Context, _ *config.Config, b *back.Back) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				report, err := b.ImportPlayers(ctx, f)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d players created, %d skipped\n", report.Created, report.Skipped)

				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		output string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the leaderboards as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBack(cmd.Context(), func(ctx context.Context, conf *config.Config, b *back.Back) error {
				var buf bytes.Buffer
				if err := b.WriteLeaderboardXLSX(ctx, &buf); err != nil {
					return err
				}

				if !upload {
					return os.WriteFile(output, buf.Bytes(), 0o644) // nolint:gosec
				}

				uploader, err := storage.NewS3Uploader(ctx, conf.Storage)
				if err != nil {
					return err
				}

				key := fmt.Sprintf("exports/leaderboard-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
				res, err := uploader.Upload(ctx, key, xlsxContentType, &buf)
				if err != nil {
					return err
				}

				log.Printf("info: uploaded %s (etag %s)", res.Key, res.ETag)
				if res.Location != "" {
					fmt.Fprintln(cmd.OutOrStdout(), res.Location)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "leaderboard.xlsx", "file to write the spreadsheet to")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the spreadsheet to the configured bucket instead")

	return cmd
}
