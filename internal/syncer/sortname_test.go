package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/fbm3334/recordshelf/internal/store"
)

var _ Catalog = (*fakeCatalog)(nil)

func TestHasArticlePrefix(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"The Beatles", true},
		{"the beatles", true},
		{"  The Beatles", true},
		{"A Tribe Called Quest", true},
		{"Los Lobos", true},
		{"La Roux", true},
		{"Le Tigre", true},
		{"Radiohead", false},
		{"Theatre Of Tragedy", false}, // "The" must be a whole word
		{"Lana Del Rey", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := hasArticlePrefix(tc.name); got != tc.want {
			t.Errorf("hasArticlePrefix(%q): expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func seedArtistRelease(t *testing.T, st *store.Store, releaseID, artistID int64, artistName string) {
	t.Helper()
	rel := store.ReleaseInput{
		ID:      releaseID,
		Title:   "Untitled",
		Artists: []store.ArtistInput{{ID: artistID, Name: artistName}},
	}
	if err := st.IngestRelease(rel, nil); err != nil {
		t.Fatalf("failed to seed release: %v", err)
	}
}

func sortNameOf(t *testing.T, st *store.Store, artistID int64) string {
	t.Helper()
	for _, a := range mustArtists(t, st) {
		if a.ID == artistID {
			return a.SortName
		}
	}
	t.Fatalf("artist %d not found", artistID)
	return ""
}

func mustArtists(t *testing.T, st *store.Store) []store.Artist {
	t.Helper()
	artists, err := st.GetAllArtists()
	if err != nil {
		t.Fatalf("failed to get artists: %v", err)
	}
	return artists
}

func TestResolveSortNamesFastPathSkipsCatalog(t *testing.T) {
	st := newTestStore(t)
	seedArtistRelease(t, st, 1, 10, "Radiohead")

	catalog := &fakeCatalog{}
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if catalog.releaseCalls != 0 {
		t.Errorf("expected no catalog calls for an unprefixed name, got %d", catalog.releaseCalls)
	}
	if got := sortNameOf(t, st, 10); got != "Radiohead" {
		t.Errorf("expected display name as sort name, got %q", got)
	}
}

func TestResolveSortNamesSlowPathUsesCatalog(t *testing.T) {
	st := newTestStore(t)
	seedArtistRelease(t, st, 1, 10, "The Beatles")

	catalog := &fakeCatalog{sortNames: map[int64]string{1: "Beatles, The"}}
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if catalog.releaseCalls != 1 {
		t.Errorf("expected one catalog call, got %d", catalog.releaseCalls)
	}
	if got := sortNameOf(t, st, 10); got != "Beatles, The" {
		t.Errorf("expected catalog sort name, got %q", got)
	}
}

func TestResolveSortNamesThoroughLooksUpEverything(t *testing.T) {
	st := newTestStore(t)
	seedArtistRelease(t, st, 1, 10, "Radiohead")

	catalog := &fakeCatalog{sortNames: map[int64]string{1: "Radiohead"}}
	if err := New(st, catalog, true).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if catalog.releaseCalls != 1 {
		t.Errorf("expected thorough mode to hit the catalog, got %d calls", catalog.releaseCalls)
	}
}

func TestResolveSortNamesFallsBackOnError(t *testing.T) {
	st := newTestStore(t)
	seedArtistRelease(t, st, 1, 10, "The National")

	catalog := &fakeCatalog{releaseErr: errors.New("rate limited")}
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("expected per-artist errors to be swallowed, got %v", err)
	}

	if got := sortNameOf(t, st, 10); got != "The National" {
		t.Errorf("expected display name fallback, got %q", got)
	}
}

func TestResolveSortNamesEmptySortFallsBack(t *testing.T) {
	st := newTestStore(t)
	seedArtistRelease(t, st, 1, 10, "The Kinks")

	catalog := &fakeCatalog{} // no sort names configured
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if got := sortNameOf(t, st, 10); got != "The Kinks" {
		t.Errorf("expected display name fallback, got %q", got)
	}
}

func TestResolveSortNamesFlushesPartialBatch(t *testing.T) {
	st := newTestStore(t)

	// More than one full batch so both the batch commit and the final
	// partial flush run
	for i := int64(1); i <= sortNameBatchSize+3; i++ {
		seedArtistRelease(t, st, i, 100+i, "Artist")
	}

	catalog := &fakeCatalog{}
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	missing, err := st.ArtistsMissingSortName()
	if err != nil {
		t.Fatalf("failed to get unresolved artists: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("expected every artist resolved, %d remain", len(missing))
	}
}

func TestResolveSortNamesNoArtists(t *testing.T) {
	st := newTestStore(t)

	catalog := &fakeCatalog{}
	if err := New(st, catalog, false).ResolveSortNames(context.Background(), nil); err != nil {
		t.Fatalf("expected empty resolve to succeed, got %v", err)
	}
	if catalog.releaseCalls != 0 {
		t.Errorf("expected no catalog traffic")
	}
}
