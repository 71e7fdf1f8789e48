package store

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	sq "github.com/Masterminds/squirrel"
)

// ReleaseFilters is the declarative filter set for paginated release
// queries. Groups are ANDed together; values within a group are ORed.
type ReleaseFilters struct {
	SearchQuery string
	ArtistIDs   []int64
	GenreIDs    []int64
	StyleIDs    []int64
	LabelIDs    []int64
	Formats     []string
	// CustomFieldFilters maps a field id to the selected values; the
	// BlanksSentinel value selects releases lacking a value for the field
	CustomFieldFilters map[int64][]string
}

var customSortPattern = regexp.MustCompile(`^custom_([0-9]+)$`)

// orderClause builds the ORDER BY expression from the sort whitelist.
// Unknown columns fall back to date_added rather than erroring.
func orderClause(sortBy string, desc bool, knownFields map[int64]bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}

	if m := customSortPattern.FindStringSubmatch(sortBy); m != nil {
		fieldID, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && knownFields[fieldID] {
			return sortBy + " COLLATE NOCASE " + dir
		}
		return "r.date_added " + dir
	}

	switch sortBy {
	case "title", "year", "date_added", "id":
		return "r." + sortBy + " " + dir
	case "artist":
		return "COALESCE(a.sort_name, a.name) COLLATE NOCASE " + dir
	default:
		return "r.date_added " + dir
	}
}

// subqueryIn expresses "release is joined to ANY of the given lookup ids"
// via the junction table. Table and column names are fixed by the callers.
func subqueryIn(table, column string, ids []int64) sq.Sqlizer {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return sq.Expr(
		fmt.Sprintf("r.id IN (SELECT release_id FROM %s WHERE %s IN (%s))",
			table, column, sq.Placeholders(len(ids))),
		args...,
	)
}

// customFieldCondition builds (blank_condition OR value_condition) for one
// custom field; the per-field table is LEFT JOINed under alias cf<id>
func customFieldCondition(fieldID int64, values []string) sq.Sqlizer {
	alias := fmt.Sprintf("cf%d", fieldID)

	var selected []string
	blanks := false
	for _, v := range values {
		if v == BlanksSentinel {
			blanks = true
		} else {
			selected = append(selected, v)
		}
	}

	var cond sq.Or
	if blanks {
		cond = append(cond, sq.Expr(fmt.Sprintf(
			"(%s.release_id IS NULL OR %s.field_value IS NULL OR TRIM(%s.field_value) = '')",
			alias, alias, alias,
		)))
	}
	if len(selected) > 0 {
		cond = append(cond, sq.Eq{alias + ".field_value": selected})
	}

	if len(cond) == 0 {
		return nil
	}
	return cond
}

// conditions translates the filter set into squirrel predicates. The same
// slice is applied to both the count and the main query so their WHERE
// logic can never drift apart.
func (f ReleaseFilters) conditions(knownFields map[int64]bool) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if f.SearchQuery != "" {
		term := "%" + f.SearchQuery + "%"
		conds = append(conds, sq.Or{
			sq.Like{"r.title": term},
			sq.Like{"r.year": term},
			sq.Like{"a.name": term},
			sq.Like{"l.name": term},
			sq.Like{"rl.catno": term},
			sq.Like{"s.name": term},
		})
	}

	if len(f.ArtistIDs) > 0 {
		conds = append(conds, sq.Eq{"a.id": f.ArtistIDs})
	}
	if len(f.GenreIDs) > 0 {
		conds = append(conds, subqueryIn("release_genres", "genre_id", f.GenreIDs))
	}
	if len(f.StyleIDs) > 0 {
		conds = append(conds, subqueryIn("release_styles", "style_id", f.StyleIDs))
	}
	if len(f.LabelIDs) > 0 {
		conds = append(conds, subqueryIn("release_labels", "label_id", f.LabelIDs))
	}
	if len(f.Formats) > 0 {
		conds = append(conds, sq.Eq{"r.format": f.Formats})
	}

	// Deterministic ordering keeps the generated SQL stable between the
	// count and main queries
	fieldIDs := make([]int64, 0, len(f.CustomFieldFilters))
	for fieldID := range f.CustomFieldFilters {
		fieldIDs = append(fieldIDs, fieldID)
	}
	sort.Slice(fieldIDs, func(i, j int) bool { return fieldIDs[i] < fieldIDs[j] })

	for _, fieldID := range fieldIDs {
		// Filters on fields that were never discovered are dropped, same
		// as an unknown sort column falling back to the default
		if !knownFields[fieldID] {
			continue
		}
		if cond := customFieldCondition(fieldID, f.CustomFieldFilters[fieldID]); cond != nil {
			conds = append(conds, cond)
		}
	}

	return conds
}

// withBaseJoins attaches the joins shared by the count and main queries,
// including one LEFT JOIN per discovered custom field
func withBaseJoins(b sq.SelectBuilder, fieldIDs []int64) sq.SelectBuilder {
	b = b.From("releases r").
		LeftJoin("release_artists ra ON r.id = ra.release_id").
		LeftJoin("artists a ON ra.artist_id = a.id").
		LeftJoin("release_labels rl ON r.id = rl.release_id").
		LeftJoin("labels l ON rl.label_id = l.id").
		LeftJoin("release_genres rg ON r.id = rg.release_id").
		LeftJoin("genres g ON rg.genre_id = g.id").
		LeftJoin("release_styles rs ON r.id = rs.release_id").
		LeftJoin("styles s ON rs.style_id = s.id")

	for _, fieldID := range fieldIDs {
		table, ok := customFieldTable(fieldID)
		if !ok {
			continue
		}
		alias := fmt.Sprintf("cf%d", fieldID)
		b = b.LeftJoin(fmt.Sprintf("%s %s ON r.id = %s.release_id", table, alias, alias))
	}

	return b
}

// releaseQueries builds the main and count queries for one filter set.
// Both carry identical joins, WHERE predicates and parameters; only the
// main query adds the grouped display columns, ordering and pagination.
func releaseQueries(f ReleaseFilters, fieldIDs []int64, sortBy string, desc bool) (main, count sq.SelectBuilder) {
	knownFields := make(map[int64]bool, len(fieldIDs))
	for _, id := range fieldIDs {
		knownFields[id] = true
	}

	columns := []string{
		"r.id",
		"REPLACE(GROUP_CONCAT(DISTINCT a.name), ',', ', ') AS artist_name",
		"r.title",
		"REPLACE(GROUP_CONCAT(DISTINCT l.name), ',', ', ') AS label_name",
		"REPLACE(GROUP_CONCAT(DISTINCT g.name), ',', ', ') AS genre_name",
		"REPLACE(GROUP_CONCAT(DISTINCT s.name), ',', ', ') AS style_name",
		"rl.catno", "r.year", "r.release_url", "r.format", "r.thumb_url", "r.date_added",
	}
	for _, fieldID := range fieldIDs {
		columns = append(columns, fmt.Sprintf("cf%d.field_value AS custom_%d", fieldID, fieldID))
	}

	main = withBaseJoins(sq.Select(columns...), fieldIDs)
	count = withBaseJoins(sq.Select("COUNT(DISTINCT r.id)"), fieldIDs)

	for _, cond := range f.conditions(knownFields) {
		main = main.Where(cond)
		count = count.Where(cond)
	}

	main = main.GroupBy("r.id").OrderBy(orderClause(sortBy, desc, knownFields))

	return main, count
}
