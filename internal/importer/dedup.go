package importer

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// RemoveDuplicateRoutes drops AtouMod routes that repeat an Astuce route.
// AtouMod republishes some Astuce lines with "<>" in the long name written
// as "" or "/". Names are compared with whitespace collapsed, as NormalizeName
// stores them.
func RemoveDuplicateRoutes(ctx context.Context, db *DB) (int, error) {
	removed := 0
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT route_long_name FROM routes WHERE route_id LIKE ?", PrefixAstuce+"%")
		if err != nil {
			return fmt.Errorf("failed to query Astuce routes: %w", err)
		}
		names := make(map[string]bool)
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan route: %w", err)
			}
			names[collapseSpaces(strings.ReplaceAll(name, "<>", ""))] = true
			names[collapseSpaces(strings.ReplaceAll(name, "<>", "/"))] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate routes: %w", err)
		}

		rows, err = tx.QueryContext(ctx, "SELECT route_id, route_long_name FROM routes WHERE route_id LIKE ?", PrefixAtoumod+"%")
		if err != nil {
			return fmt.Errorf("failed to query AtouMod routes: %w", err)
		}
		var duplicates []string
		for rows.Next() {
			var id, name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan route: %w", err)
			}
			if names[collapseSpaces(name)] {
				duplicates = append(duplicates, id)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate routes: %w", err)
		}

		for _, id := range duplicates {
			if _, err := tx.ExecContext(ctx, "DELETE FROM cache_stop_routes WHERE route_id = ?", id); err != nil {
				return fmt.Errorf("failed to unlink route %s: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM routes WHERE route_id = ?", id); err != nil {
				return fmt.Errorf("failed to delete route %s: %w", id, err)
			}
		}
		removed = len(duplicates)
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int("routes", removed).Msg("removed duplicate AtouMod routes")
	return removed, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
