package syncer

import (
	"context"
	"regexp"

	"github.com/fbm3334/recordshelf/internal/store"
	"github.com/fbm3334/recordshelf/internal/util"
)

// sortNameBatchSize bounds both write amplification and the data lost if
// a long resolution pass is interrupted
const sortNameBatchSize = 10

// articlePattern matches locale-specific leading articles that make a
// display name unsuitable for alphabetical ordering
var articlePattern = regexp.MustCompile(`(?i)^\s*(?:the|a|el|la|los|las|un|una|le|les|une|il|lo|gli|ein|eine)\s+`)

// hasArticlePrefix reports whether a display name starts with a leading
// article and so needs the catalog's sort name
func hasArticlePrefix(name string) bool {
	return articlePattern.MatchString(name)
}

// ResolveSortNames computes a sort name for every artist that lacks one.
// Names without a leading article resolve locally; the rest fall back to
// the catalog's sort-artist field via one of the artist's releases.
// Updates are committed in batches with a final partial flush.
func (s *Syncer) ResolveSortNames(ctx context.Context, progress Progress) error {
	artists, err := s.store.ArtistsMissingSortName()
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		return nil
	}

	total := len(artists)
	updates := make([]store.SortNameUpdate, 0, sortNameBatchSize)

	for i, artist := range artists {
		updates = append(updates, store.SortNameUpdate{
			ArtistID: artist.ID,
			SortName: s.determineSortName(ctx, artist),
		})

		if progress != nil {
			progress(StageSortNames, i+1, total)
		}

		if len(updates) >= sortNameBatchSize {
			if err := s.store.UpdateSortNames(updates); err != nil {
				return err
			}
			updates = updates[:0]
		}
	}

	// Flush the final partial batch
	return s.store.UpdateSortNames(updates)
}

// determineSortName picks the sort name for one artist. The fast path
// uses the display name verbatim; the slow path asks the catalog and
// falls back to the display name on any failure.
func (s *Syncer) determineSortName(ctx context.Context, artist store.Artist) string {
	if !s.thorough && !hasArticlePrefix(artist.Name) {
		return artist.Name
	}

	sortName, err := s.fetchSortName(ctx, artist.ID)
	if err != nil {
		util.WarnLog("Failed to fetch sort name for %s: %v", artist.Name, err)
		return artist.Name
	}
	if sortName == "" {
		return artist.Name
	}
	return sortName
}

// fetchSortName reads the catalog's sort-artist field from the artist's
// first release (lowest release id). Returns "" when the artist has no
// releases or the record carries no sort artist.
func (s *Syncer) fetchSortName(ctx context.Context, artistID int64) (string, error) {
	releaseID, err := s.store.FirstReleaseIDForArtist(artistID)
	if err != nil {
		return "", err
	}
	if releaseID == 0 {
		return "", nil
	}

	detail, err := s.catalog.Release(ctx, releaseID)
	if err != nil {
		return "", err
	}

	return detail.ArtistsSort, nil
}
