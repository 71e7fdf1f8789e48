package store

import (
	"database/sql"
	"fmt"
)

// GetAllArtists returns every artist ordered for display, with SortName
// falling back to the display name where unresolved
func (s *Store) GetAllArtists() ([]Artist, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(sort_name, name)
		FROM artists
		ORDER BY COALESCE(sort_name, name) COLLATE NOCASE ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.SortName); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}

	return artists, rows.Err()
}

// GetArtistIDByName returns the id for an exact artist name, or 0 if the
// artist is unknown
func (s *Store) GetArtistIDByName(name string) (int64, error) {
	return s.idByName("artists", name)
}

// GetAllGenres returns every genre in discovery order
func (s *Store) GetAllGenres() ([]NamedEntity, error) {
	return s.allNamed("genres", "id")
}

// GetGenreIDByName returns the id for an exact genre name, or 0 if unknown
func (s *Store) GetGenreIDByName(name string) (int64, error) {
	return s.idByName("genres", name)
}

// GetAllStyles returns every style ordered by name
func (s *Store) GetAllStyles() ([]NamedEntity, error) {
	return s.allNamed("styles", "name")
}

// GetStyleIDByName returns the id for an exact style name, or 0 if unknown
func (s *Store) GetStyleIDByName(name string) (int64, error) {
	return s.idByName("styles", name)
}

// GetAllLabels returns every label ordered by name
func (s *Store) GetAllLabels() ([]NamedEntity, error) {
	return s.allNamed("labels", "name")
}

// GetLabelIDByName returns the id for an exact label name, or 0 if unknown
func (s *Store) GetLabelIDByName(name string) (int64, error) {
	return s.idByName("labels", name)
}

// allNamed reads a lookup table; table and order column are fixed strings
// chosen by the callers above, never user input
func (s *Store) allNamed(table, orderBy string) ([]NamedEntity, error) {
	rows, err := s.db.Query("SELECT id, name FROM " + table + " ORDER BY " + orderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var entities []NamedEntity
	for rows.Next() {
		var e NamedEntity
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		entities = append(entities, e)
	}

	return entities, rows.Err()
}

func (s *Store) idByName(table, name string) (int64, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up %q in %s: %w", name, table, err)
	}
	return id, nil
}

// GetUniqueFormats returns the distinct non-empty formats across releases
func (s *Store) GetUniqueFormats() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT format FROM releases
		WHERE format IS NOT NULL AND format != ''
		ORDER BY format ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats: %w", err)
	}
	defer rows.Close()

	var formats []string
	for rows.Next() {
		var format string
		if err := rows.Scan(&format); err != nil {
			return nil, fmt.Errorf("failed to scan format: %w", err)
		}
		formats = append(formats, format)
	}

	return formats, rows.Err()
}

// CountReleases returns the total number of releases in the database
func (s *Store) CountReleases() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM releases").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count releases: %w", err)
	}
	return count, nil
}

// ArtistsMissingSortName returns the artists whose sort name has not been
// resolved yet
func (s *Store) ArtistsMissingSortName() ([]Artist, error) {
	rows, err := s.db.Query("SELECT DISTINCT id, name FROM artists WHERE sort_name IS NULL")
	if err != nil {
		return nil, fmt.Errorf("failed to query artists missing sort name: %w", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}

	return artists, rows.Err()
}

// FirstReleaseIDForArtist returns the lowest release id linked to the
// artist, or 0 if the artist has no releases. Lowest id is the tie-break
// so the slow sort-name path always inspects the same release.
func (s *Store) FirstReleaseIDForArtist(artistID int64) (int64, error) {
	var releaseID int64
	err := s.db.QueryRow(`
		SELECT release_id FROM release_artists
		WHERE artist_id = ?
		ORDER BY release_id ASC
		LIMIT 1
	`, artistID).Scan(&releaseID)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find release for artist %d: %w", artistID, err)
	}

	return releaseID, nil
}

// UpdateSortNames applies a batch of sort-name assignments in one transaction
func (s *Store) UpdateSortNames(updates []SortNameUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return s.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("UPDATE artists SET sort_name = ? WHERE id = ?")
		if err != nil {
			return fmt.Errorf("failed to prepare sort name update: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			if _, err := stmt.Exec(u.SortName, u.ArtistID); err != nil {
				return fmt.Errorf("failed to update sort name for artist %d: %w", u.ArtistID, err)
			}
		}

		return nil
	})
}
