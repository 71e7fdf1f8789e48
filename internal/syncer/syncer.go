// Package syncer orchestrates pulling a user's collection from the remote
// catalog into the local store and lazily resolving artist sort names.
package syncer

import (
	"context"
	"fmt"

	"github.com/fbm3334/recordshelf/internal/discogs"
	"github.com/fbm3334/recordshelf/internal/store"
)

// Stage names reported to the progress callback
const (
	StageCollection = "Fetching collection"
	StageSortNames  = "Fetching artist sort names"
)

// Catalog is the narrow interface the syncer needs from the remote
// collection client
type Catalog interface {
	Identity(ctx context.Context) (*discogs.Identity, error)
	CollectionReleases(ctx context.Context, username string, page int) (*discogs.CollectionPage, error)
	Release(ctx context.Context, id int64) (*discogs.ReleaseDetail, error)
}

// Progress reports coarse sync progress: the current stage name plus a
// completed/total pair, called after each item
type Progress func(stage string, completed, total int)

// Syncer coordinates collection ingestion and sort-name resolution
type Syncer struct {
	store    *store.Store
	catalog  Catalog
	thorough bool
}

// New creates a syncer. When thorough is set, every unresolved artist
// takes the slow remote sort-name path, not just prefixed ones.
func New(st *store.Store, catalog Catalog, thorough bool) *Syncer {
	return &Syncer{
		store:    st,
		catalog:  catalog,
		thorough: thorough,
	}
}

// Run performs a full sync: fetch and ingest the collection, then resolve
// missing artist sort names
func (s *Syncer) Run(ctx context.Context, progress Progress) error {
	if err := s.SyncCollection(ctx, progress); err != nil {
		return err
	}
	return s.ResolveSortNames(ctx, progress)
}

// SyncCollection enumerates the user's collection and ingests every
// release. Enumeration failures propagate to the caller; malformed items
// degrade to no-ops inside the store.
func (s *Syncer) SyncCollection(ctx context.Context, progress Progress) error {
	identity, err := s.catalog.Identity(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch identity: %w", err)
	}

	completed := 0
	for page, pages := 1, 1; page <= pages; page++ {
		result, err := s.catalog.CollectionReleases(ctx, identity.Username, page)
		if err != nil {
			return fmt.Errorf("failed to fetch collection page %d: %w", page, err)
		}
		pages = result.Pagination.Pages

		for _, item := range result.Releases {
			rel, notes := toReleaseInput(item)
			if err := s.store.IngestRelease(rel, notes); err != nil {
				return fmt.Errorf("failed to ingest release %d: %w", rel.ID, err)
			}

			completed++
			if progress != nil {
				progress(StageCollection, completed, result.Pagination.Items)
			}
		}
	}

	return nil
}

// toReleaseInput flattens a collection item into the store's input shape
func toReleaseInput(item discogs.CollectionItem) (store.ReleaseInput, []store.NoteInput) {
	info := item.BasicInformation

	rel := store.ReleaseInput{
		ID:       info.ID,
		MasterID: info.MasterID,
		Title:    info.Title,
		Year:     yearString(info.Year.String()),
		ThumbURL: info.Thumb,
	}

	for _, f := range info.Formats {
		rel.Formats = append(rel.Formats, f.Name)
	}
	for _, a := range info.Artists {
		rel.Artists = append(rel.Artists, store.ArtistInput{ID: a.ID, Name: a.Name})
	}
	rel.Genres = info.Genres
	rel.Styles = info.Styles
	for _, l := range info.Labels {
		rel.Labels = append(rel.Labels, store.LabelInput{Name: l.Name, CatNo: l.CatNo})
	}

	var notes []store.NoteInput
	for _, n := range item.Notes {
		notes = append(notes, store.NoteInput{FieldID: n.FieldID, Value: n.Value})
	}

	return rel, notes
}

// yearString normalises the catalog's year value; 0 means unknown
func yearString(raw string) string {
	if raw == "" || raw == "0" {
		return ""
	}
	return raw
}
