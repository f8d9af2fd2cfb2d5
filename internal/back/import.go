package back

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ImportReport counts what an import did.
type ImportReport struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// ImportPlayers reads a CSV roster whose header names the group of each
// column (eg. "A,B"), every non-empty cell below is a player of that group.
// Players already registered in the same group are skipped, the whole import
// is a single transaction.
func (b *Back) ImportPlayers(ctx context.Context, r io.Reader) (ImportReport, error) {
	entries, err := parseRoster(r)
	if err != nil {
		return ImportReport{}, err
	}

	var report ImportReport
	if err := b.transaction(ctx, "import players", func(tx Tx) error {
		for _, v := range entries {
			_, err := tx.GetPlayerByName(v.Name, v.Group)
			if err == nil {
				report.Skipped++
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}

			if err := tx.InsertPlayer(&v); err != nil {
				return fmt.Errorf("unable to insert %s: %w", v.Name, err)
			}
			report.Created++
		}

		return nil
	}); err != nil {
		return ImportReport{}, err
	}

	log.Printf("info: imported %d players, skipped %d", report.Created, report.Skipped)
	if report.Created > 0 {
		b.notify(newPlayersImportedNotification(report))
	}

	return report, nil
}

func parseRoster(r io.Reader) ([]Player, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, newShapeError(RuleInvalidImport, "empty roster")
	}
	if err != nil {
		return nil, newShapeError(RuleInvalidImport, "unable to read roster header: %s", err)
	}

	groups := make([]Group, len(header))
	for k, v := range header {
		if groups[k], err = ParseGroup(v); err != nil {
			return nil, newShapeError(RuleInvalidImport, "column %d: %s", k+1, err)
		}
	}

	seen := map[string]struct{}{}
	var ret []Player

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newShapeError(RuleInvalidImport, "line %d: %s", line, err)
		}

		for k, cell := range record {
			if k >= len(groups) {
				break
			}

			name := normalizeName(cell)
			if name == "" {
				continue
			}

			key := string(groups[k]) + "/" + name
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			ret = append(ret, NewPlayer(name, groups[k]))
		}
	}

	return ret, nil
}

// normalizeName collapses whitespace and composes accents so the same name
// typed on two keyboards is stored once. Casing is kept as written.
func normalizeName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}
