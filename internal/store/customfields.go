package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BlanksSentinel is the reserved filter value meaning "this custom field
// has no value for the release"
const BlanksSentinel = "[Blanks]"

const customFieldPrefix = "custom_field_"

// customFieldTable maps a field id to its table name. Field ids come from
// the remote catalog as integers; anything negative is rejected so an id
// can never smuggle arbitrary SQL into an identifier.
func customFieldTable(fieldID int64) (string, bool) {
	if fieldID < 0 {
		return "", false
	}
	return customFieldPrefix + strconv.FormatInt(fieldID, 10), true
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// ensureCustomFieldTable creates the per-field table on first sighting;
// repeated calls are no-ops
func ensureCustomFieldTable(db execer, table string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ` + table + ` (
			release_id INTEGER PRIMARY KEY REFERENCES releases(id),
			field_value TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// CustomFieldIDs returns the ids of every custom field discovered so far,
// in ascending order, by scanning the schema for per-field tables
func (s *Store) CustomFieldIDs() ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name LIKE ?
	`, customFieldPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query custom field tables: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}

		// Ignore tables that don't follow the naming convention
		id, err := strconv.ParseInt(strings.TrimPrefix(name, customFieldPrefix), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetAllCustomFieldValues returns, per discovered field id, the sorted
// distinct non-blank values with the blanks sentinel prepended
func (s *Store) GetAllCustomFieldValues() (map[int64][]string, error) {
	ids, err := s.CustomFieldIDs()
	if err != nil {
		return nil, err
	}

	values := make(map[int64][]string, len(ids))
	for _, fieldID := range ids {
		table, ok := customFieldTable(fieldID)
		if !ok {
			continue
		}

		rows, err := s.db.Query("SELECT DISTINCT field_value FROM " + table + " ORDER BY field_value ASC")
		if err != nil {
			return nil, fmt.Errorf("failed to query values for field %d: %w", fieldID, err)
		}

		fieldValues := []string{BlanksSentinel}
		for rows.Next() {
			var value sql.NullString
			if err := rows.Scan(&value); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan value for field %d: %w", fieldID, err)
			}
			// NULL and whitespace-only values are covered by the sentinel
			if value.Valid && strings.TrimSpace(value.String) != "" {
				fieldValues = append(fieldValues, value.String)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()

		values[fieldID] = fieldValues
	}

	return values, nil
}
