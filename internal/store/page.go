package store

import (
	"database/sql"
	"fmt"
)

// PageRequest describes one page of the filtered collection view.
// PageSize 0 means "return everything" and Page is ignored.
type PageRequest struct {
	Page     int
	PageSize int
	SortBy   string
	Desc     bool
	Filters  ReleaseFilters
}

// ReleaseRow is one display row of the paginated view. Multi-valued
// associations are pre-aggregated into comma-separated strings.
type ReleaseRow struct {
	ID         int64
	Artist     string
	Title      string
	Label      string
	Genres     string
	Styles     string
	CatNo      string
	Year       string
	ReleaseURL string
	Format     string
	ThumbURL   string
	DateAdded  string
	// CustomFields holds the value per discovered custom field id;
	// absent fields are empty strings
	CustomFields map[int64]string
}

// GetReleasesPage runs the count query and then the page query against the
// current store state. Both share the exact WHERE logic and parameters.
func (s *Store) GetReleasesPage(req PageRequest) ([]ReleaseRow, int, error) {
	fieldIDs, err := s.CustomFieldIDs()
	if err != nil {
		return nil, 0, err
	}

	main, count := releaseQueries(req.Filters, fieldIDs, req.SortBy, req.Desc)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := s.db.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count releases: %w", err)
	}

	limit, offset := pageWindow(req.Page, req.PageSize, total)
	main = main.Limit(uint64(limit)).Offset(uint64(offset))

	mainSQL, mainArgs, err := main.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build release query: %w", err)
	}

	rows, err := s.db.Query(mainSQL, mainArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query releases: %w", err)
	}
	defer rows.Close()

	var result []ReleaseRow
	for rows.Next() {
		row, err := scanReleaseRow(rows, fieldIDs)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}

	return result, total, rows.Err()
}

// pageWindow computes the LIMIT/OFFSET pair, handling the fetch-all case
func pageWindow(page, pageSize, total int) (limit, offset int) {
	if pageSize == 0 {
		return total, 0
	}
	return pageSize, page * pageSize
}

func scanReleaseRow(rows *sql.Rows, fieldIDs []int64) (ReleaseRow, error) {
	var row ReleaseRow
	var artist, label, genres, styles, catno, year, releaseURL, format, thumbURL, dateAdded sql.NullString

	dest := []any{
		&row.ID, &artist, &row.Title, &label, &genres, &styles,
		&catno, &year, &releaseURL, &format, &thumbURL, &dateAdded,
	}

	customValues := make([]sql.NullString, len(fieldIDs))
	for i := range customValues {
		dest = append(dest, &customValues[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return ReleaseRow{}, fmt.Errorf("failed to scan release row: %w", err)
	}

	row.Artist = artist.String
	row.Label = label.String
	row.Genres = genres.String
	row.Styles = styles.String
	row.CatNo = catno.String
	row.Year = year.String
	row.ReleaseURL = releaseURL.String
	row.Format = format.String
	row.ThumbURL = thumbURL.String
	row.DateAdded = dateAdded.String

	row.CustomFields = make(map[int64]string, len(fieldIDs))
	for i, fieldID := range fieldIDs {
		row.CustomFields[fieldID] = customValues[i].String
	}

	return row, nil
}
