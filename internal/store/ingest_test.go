package store

import (
	"testing"
)

func sampleRelease() ReleaseInput {
	return ReleaseInput{
		ID:       249504,
		MasterID: 96559,
		Title:    "Nevermind",
		Year:     "1991",
		ThumbURL: "https://i.discogs.com/thumb.jpg",
		Formats:  []string{"Vinyl"},
		Artists:  []ArtistInput{{ID: 125246, Name: "Nirvana"}},
		Genres:   []string{"Rock"},
		Styles:   []string{"Grunge"},
		Labels:   []LabelInput{{Name: "DGC", CatNo: "DGC-24425"}},
	}
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

func TestIngestRelease(t *testing.T) {
	s := newTestStore(t)

	if err := s.IngestRelease(sampleRelease(), nil); err != nil {
		t.Fatalf("failed to ingest release: %v", err)
	}

	var title, year, format, releaseURL string
	err := s.db.QueryRow(
		"SELECT title, year, format, release_url FROM releases WHERE id = 249504",
	).Scan(&title, &year, &format, &releaseURL)
	if err != nil {
		t.Fatalf("failed to read back release: %v", err)
	}

	if title != "Nevermind" || year != "1991" || format != "Vinyl" {
		t.Errorf("unexpected release row: title=%q year=%q format=%q", title, year, format)
	}
	if releaseURL != "https://www.discogs.com/release/249504" {
		t.Errorf("unexpected release url %q", releaseURL)
	}

	for table, want := range map[string]int{
		"artists": 1, "genres": 1, "styles": 1, "labels": 1,
		"release_artists": 1, "release_genres": 1, "release_styles": 1, "release_labels": 1,
	} {
		if got := countRows(t, s, table); got != want {
			t.Errorf("expected %d rows in %s, got %d", want, table, got)
		}
	}
}

func TestIngestIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := s.IngestRelease(sampleRelease(), nil); err != nil {
			t.Fatalf("ingest %d failed: %v", i, err)
		}
	}

	for _, table := range []string{
		"releases", "artists", "genres", "styles", "labels",
		"release_artists", "release_genres", "release_styles", "release_labels",
	} {
		if got := countRows(t, s, table); got != 1 {
			t.Errorf("expected 1 row in %s after repeated ingest, got %d", table, got)
		}
	}
}

func TestIngestPreservesDateAdded(t *testing.T) {
	s := newTestStore(t)

	if err := s.IngestRelease(sampleRelease(), nil); err != nil {
		t.Fatalf("failed to ingest release: %v", err)
	}

	// Pin date_added to a known value, then sync the release again with
	// changed details
	if _, err := s.db.Exec(
		"UPDATE releases SET date_added = '2020-06-01 12:00:00' WHERE id = 249504",
	); err != nil {
		t.Fatalf("failed to pin date_added: %v", err)
	}

	updated := sampleRelease()
	updated.Title = "Nevermind (Remastered)"
	updated.Formats = []string{"CD"}
	if err := s.IngestRelease(updated, nil); err != nil {
		t.Fatalf("failed to re-ingest release: %v", err)
	}

	var title, format, dateAdded string
	err := s.db.QueryRow(
		"SELECT title, format, date_added FROM releases WHERE id = 249504",
	).Scan(&title, &format, &dateAdded)
	if err != nil {
		t.Fatalf("failed to read back release: %v", err)
	}

	if title != "Nevermind (Remastered)" || format != "CD" {
		t.Errorf("expected updated details, got title=%q format=%q", title, format)
	}
	if dateAdded != "2020-06-01 12:00:00" {
		t.Errorf("expected date_added to survive the update, got %q", dateAdded)
	}
}

func TestIngestMarksFirstArtistPrimary(t *testing.T) {
	s := newTestStore(t)

	rel := sampleRelease()
	rel.Artists = []ArtistInput{
		{ID: 1, Name: "David Byrne"},
		{ID: 2, Name: "St. Vincent"},
	}
	if err := s.IngestRelease(rel, nil); err != nil {
		t.Fatalf("failed to ingest release: %v", err)
	}

	rows, err := s.db.Query(
		"SELECT artist_id, is_primary FROM release_artists WHERE release_id = ? ORDER BY artist_id",
		rel.ID,
	)
	if err != nil {
		t.Fatalf("failed to query artist links: %v", err)
	}
	defer rows.Close()

	primary := map[int64]int{}
	for rows.Next() {
		var artistID int64
		var isPrimary int
		if err := rows.Scan(&artistID, &isPrimary); err != nil {
			t.Fatalf("failed to scan artist link: %v", err)
		}
		primary[artistID] = isPrimary
	}

	if primary[1] != 1 {
		t.Errorf("expected the first credited artist to be primary")
	}
	if primary[2] != 0 {
		t.Errorf("expected the second credited artist not to be primary")
	}
}

func TestIngestNeverRenamesArtist(t *testing.T) {
	s := newTestStore(t)

	first := sampleRelease()
	first.Artists = []ArtistInput{{ID: 77, Name: "Sigur Rós"}}
	if err := s.IngestRelease(first, nil); err != nil {
		t.Fatalf("failed to ingest first release: %v", err)
	}

	// Same artist id, different spelling on a second release
	second := sampleRelease()
	second.ID = 300000
	second.Title = "( )"
	second.Artists = []ArtistInput{{ID: 77, Name: "Sigur Ros"}}
	if err := s.IngestRelease(second, nil); err != nil {
		t.Fatalf("failed to ingest second release: %v", err)
	}

	if got := countRows(t, s, "artists"); got != 1 {
		t.Fatalf("expected a single artist row, got %d", got)
	}

	var name string
	if err := s.db.QueryRow("SELECT name FROM artists WHERE id = 77").Scan(&name); err != nil {
		t.Fatalf("failed to read back artist: %v", err)
	}
	if name != "Sigur Rós" {
		t.Errorf("expected first-seen name to stick, got %q", name)
	}
}

func TestIngestSkipsReleaseWithoutID(t *testing.T) {
	s := newTestStore(t)

	rel := sampleRelease()
	rel.ID = 0
	if err := s.IngestRelease(rel, nil); err != nil {
		t.Fatalf("expected missing-id payload to be skipped, got %v", err)
	}

	if got := countRows(t, s, "releases"); got != 0 {
		t.Errorf("expected no rows for a missing-id payload, got %d", got)
	}
}

func TestIngestEmptyLookupNamesIgnored(t *testing.T) {
	s := newTestStore(t)

	rel := sampleRelease()
	rel.Genres = []string{"", "Rock"}
	rel.Labels = []LabelInput{{Name: "", CatNo: "X-1"}, {Name: "DGC", CatNo: "DGC-24425"}}
	if err := s.IngestRelease(rel, nil); err != nil {
		t.Fatalf("failed to ingest release: %v", err)
	}

	if got := countRows(t, s, "genres"); got != 1 {
		t.Errorf("expected empty genre name to be skipped, got %d rows", got)
	}
	if got := countRows(t, s, "labels"); got != 1 {
		t.Errorf("expected empty label name to be skipped, got %d rows", got)
	}
}

func TestIngestCustomNotes(t *testing.T) {
	s := newTestStore(t)

	notes := []NoteInput{
		{FieldID: 3, Value: "  Mint  "},
		{FieldID: -1, Value: "ignored"},
	}
	if err := s.IngestRelease(sampleRelease(), notes); err != nil {
		t.Fatalf("failed to ingest release with notes: %v", err)
	}

	fieldIDs, err := s.CustomFieldIDs()
	if err != nil {
		t.Fatalf("failed to list custom fields: %v", err)
	}
	if len(fieldIDs) != 1 || fieldIDs[0] != 3 {
		t.Fatalf("expected only field 3 to be discovered, got %v", fieldIDs)
	}

	var value string
	if err := s.db.QueryRow("SELECT field_value FROM custom_field_3 WHERE release_id = 249504").Scan(&value); err != nil {
		t.Fatalf("failed to read back note: %v", err)
	}
	if value != "Mint" {
		t.Errorf("expected note value to be trimmed, got %q", value)
	}

	// A later sync replaces the stored value
	if err := s.IngestRelease(sampleRelease(), []NoteInput{{FieldID: 3, Value: "Very Good"}}); err != nil {
		t.Fatalf("failed to re-ingest release: %v", err)
	}
	if err := s.db.QueryRow("SELECT field_value FROM custom_field_3 WHERE release_id = 249504").Scan(&value); err != nil {
		t.Fatalf("failed to read back updated note: %v", err)
	}
	if value != "Very Good" {
		t.Errorf("expected note value to be replaced, got %q", value)
	}
}
