package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// ReleaseInput is one denormalised release payload from the remote catalog
type ReleaseInput struct {
	ID       int64
	MasterID int64
	Title    string
	Year     string
	ThumbURL string
	Formats  []string
	Artists  []ArtistInput
	Genres   []string
	Styles   []string
	Labels   []LabelInput
}

// ArtistInput is one entry of a release's artist list, in catalog order
type ArtistInput struct {
	ID   int64
	Name string
}

// LabelInput pairs a label name with the catalog number it issued
type LabelInput struct {
	Name  string
	CatNo string
}

// NoteInput is one custom field value attached to a release
type NoteInput struct {
	FieldID int64
	Value   string
}

// ReleaseURL derives the public catalog page for a release id
func ReleaseURL(id int64) string {
	return fmt.Sprintf("https://www.discogs.com/release/%d", id)
}

// IngestRelease upserts one release and all of its associations into the
// normalised tables. A payload without an id is silently skipped; missing
// nested lists degrade to empty. The whole release is written in a single
// transaction so re-ingesting is idempotent.
func (s *Store) IngestRelease(rel ReleaseInput, notes []NoteInput) error {
	if rel.ID == 0 {
		return nil
	}

	return s.Transaction(func(tx *sql.Tx) error {
		if err := upsertRelease(tx, rel); err != nil {
			return err
		}
		if err := rewriteArtists(tx, rel); err != nil {
			return err
		}
		if err := rewriteGenresStylesLabels(tx, rel); err != nil {
			return err
		}
		return writeCustomNotes(tx, rel.ID, notes)
	})
}

// upsertRelease writes the release row; date_added is set on first insert
// and never touched again
func upsertRelease(tx *sql.Tx, rel ReleaseInput) error {
	format := ""
	if len(rel.Formats) > 0 {
		format = rel.Formats[0]
	}

	_, err := tx.Exec(`
		INSERT INTO releases (id, master_id, title, year, thumb_url, release_url, format)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			master_id = excluded.master_id,
			title = excluded.title,
			year = excluded.year,
			thumb_url = excluded.thumb_url,
			release_url = excluded.release_url,
			format = excluded.format
	`, rel.ID, rel.MasterID, rel.Title, rel.Year, rel.ThumbURL, ReleaseURL(rel.ID), format)

	if err != nil {
		return fmt.Errorf("failed to upsert release %d: %w", rel.ID, err)
	}

	return nil
}

// rewriteArtists clears and rewrites the artist links for this release.
// Artist names are only set on first sighting; later syncs never overwrite
// them. The first artist in catalog order is the primary one.
func rewriteArtists(tx *sql.Tx, rel ReleaseInput) error {
	if _, err := tx.Exec("DELETE FROM release_artists WHERE release_id = ?", rel.ID); err != nil {
		return fmt.Errorf("failed to clear artist links for release %d: %w", rel.ID, err)
	}

	for i, artist := range rel.Artists {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO artists (id, name) VALUES (?, ?)",
			artist.ID, artist.Name,
		); err != nil {
			return fmt.Errorf("failed to insert artist %d: %w", artist.ID, err)
		}

		isPrimary := 0
		if i == 0 {
			isPrimary = 1
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO release_artists (release_id, artist_id, is_primary) VALUES (?, ?, ?)",
			rel.ID, artist.ID, isPrimary,
		); err != nil {
			return fmt.Errorf("failed to link artist %d to release %d: %w", artist.ID, rel.ID, err)
		}
	}

	return nil
}

// rewriteGenresStylesLabels clears and rewrites the genre, style and label
// links for this release, creating lookup rows as needed
func rewriteGenresStylesLabels(tx *sql.Tx, rel ReleaseInput) error {
	if _, err := tx.Exec("DELETE FROM release_genres WHERE release_id = ?", rel.ID); err != nil {
		return fmt.Errorf("failed to clear genre links for release %d: %w", rel.ID, err)
	}
	for _, genre := range rel.Genres {
		id, err := findOrCreateLookup(tx, "genres", genre)
		if err != nil {
			return err
		}
		if id == 0 {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO release_genres (release_id, genre_id) VALUES (?, ?)",
			rel.ID, id,
		); err != nil {
			return fmt.Errorf("failed to link genre %q to release %d: %w", genre, rel.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM release_styles WHERE release_id = ?", rel.ID); err != nil {
		return fmt.Errorf("failed to clear style links for release %d: %w", rel.ID, err)
	}
	for _, style := range rel.Styles {
		id, err := findOrCreateLookup(tx, "styles", style)
		if err != nil {
			return err
		}
		if id == 0 {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO release_styles (release_id, style_id) VALUES (?, ?)",
			rel.ID, id,
		); err != nil {
			return fmt.Errorf("failed to link style %q to release %d: %w", style, rel.ID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM release_labels WHERE release_id = ?", rel.ID); err != nil {
		return fmt.Errorf("failed to clear label links for release %d: %w", rel.ID, err)
	}
	for _, label := range rel.Labels {
		id, err := findOrCreateLookup(tx, "labels", label.Name)
		if err != nil {
			return err
		}
		if id == 0 {
			continue
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO release_labels (release_id, label_id, catno) VALUES (?, ?, ?)",
			rel.ID, id, label.CatNo,
		); err != nil {
			return fmt.Errorf("failed to link label %q to release %d: %w", label.Name, rel.ID, err)
		}
	}

	return nil
}

// findOrCreateLookup resolves a name to its lookup-table id, inserting it on
// first sighting (case-sensitive exact match). Returns 0 for an empty name.
// The table name is always one of the fixed lookup tables, never user input.
func findOrCreateLookup(tx *sql.Tx, table, name string) (int64, error) {
	if name == "" {
		return 0, nil
	}

	var id int64
	err := tx.QueryRow("SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up %q in %s: %w", name, table, err)
	}

	result, err := tx.Exec("INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert %q into %s: %w", name, table, err)
	}

	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get id for %q in %s: %w", name, table, err)
	}

	return id, nil
}

// writeCustomNotes upserts the custom field values for this release,
// creating per-field tables as they are first observed
func writeCustomNotes(tx *sql.Tx, releaseID int64, notes []NoteInput) error {
	for _, note := range notes {
		table, ok := customFieldTable(note.FieldID)
		if !ok {
			continue
		}

		if err := ensureCustomFieldTable(tx, table); err != nil {
			return err
		}

		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO "+table+" (release_id, field_value) VALUES (?, ?)",
			releaseID, strings.TrimSpace(note.Value),
		); err != nil {
			return fmt.Errorf("failed to write custom field %d for release %d: %w", note.FieldID, releaseID, err)
		}
	}

	return nil
}
