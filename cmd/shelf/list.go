package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fbm3334/recordshelf/internal/store"
	"github.com/fbm3334/recordshelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List releases in the local collection",
	Long: `Browse the synced collection with filters, search and pagination.

Filters within one category are OR-ed together, filters across
categories are AND-ed. Name filters (--artist, --genre, --style,
--label) must match an existing entry exactly; unknown names are an
error rather than an empty result.

Custom field notes are filtered with --note id=value, where value may
be the literal [Blanks] to match releases with no value for that field.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("search", "s", "", "free-text search across title, year, artist, label, catno and style")
	listCmd.Flags().StringSlice("artist", nil, "filter by artist name (repeatable)")
	listCmd.Flags().StringSlice("genre", nil, "filter by genre name (repeatable)")
	listCmd.Flags().StringSlice("style", nil, "filter by style name (repeatable)")
	listCmd.Flags().StringSlice("label", nil, "filter by label name (repeatable)")
	listCmd.Flags().StringSlice("format", nil, "filter by format (repeatable)")
	listCmd.Flags().StringSlice("note", nil, "filter by custom field, as id=value (repeatable)")
	listCmd.Flags().String("sort", "date_added", "sort column (title, year, date_added, id, artist, custom_<id>)")
	listCmd.Flags().Bool("asc", false, "sort ascending instead of descending")
	listCmd.Flags().Int("page", 1, "page number")
	listCmd.Flags().Int("page-size", 50, "rows per page")
	listCmd.Flags().Bool("all", false, "show every matching release on one page")
}

func runList(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	filters, err := buildFilters(cmd, db)
	if err != nil {
		return err
	}

	sortBy, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	all, _ := cmd.Flags().GetBool("all")

	if page < 1 {
		page = 1
	}
	if all {
		pageSize = 0
	}

	releases, total, err := db.GetReleasesPage(store.PageRequest{
		Page:     page - 1,
		PageSize: pageSize,
		SortBy:   sortBy,
		Desc:     !asc,
		Filters:  filters,
	})
	if err != nil {
		return fmt.Errorf("failed to query releases: %w", err)
	}

	if total == 0 {
		util.InfoLog("No releases match the given filters.")
		return nil
	}

	// Keep wide cells from wrapping when writing to a terminal
	cellWidth := 0
	if util.IsTerminal(os.Stdout.Fd()) {
		cellWidth = util.GetTerminalWidth() / 5
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ARTIST\tTITLE\tLABEL\tCAT#\tYEAR\tFORMAT\tGENRES")
	for _, r := range releases {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			clip(r.Artist, cellWidth), clip(r.Title, cellWidth), clip(r.Label, cellWidth),
			r.CatNo, r.Year, r.Format, clip(r.Genres, cellWidth))
	}
	w.Flush()

	fmt.Println()
	if pageSize == 0 {
		fmt.Printf("%s releases\n", humanize.Comma(int64(total)))
	} else {
		pages := (total + pageSize - 1) / pageSize
		fmt.Printf("Page %d of %d (%s releases)\n", page, pages, humanize.Comma(int64(total)))
	}

	return nil
}

// buildFilters resolves the name-based flags to ids and assembles the
// filter set for the query layer
func buildFilters(cmd *cobra.Command, db *store.Store) (store.ReleaseFilters, error) {
	var f store.ReleaseFilters

	f.SearchQuery, _ = cmd.Flags().GetString("search")
	f.Formats, _ = cmd.Flags().GetStringSlice("format")

	type nameLookup struct {
		flag    string
		resolve func(string) (int64, error)
		dest    *[]int64
	}

	lookups := []nameLookup{
		{"artist", db.GetArtistIDByName, &f.ArtistIDs},
		{"genre", db.GetGenreIDByName, &f.GenreIDs},
		{"style", db.GetStyleIDByName, &f.StyleIDs},
		{"label", db.GetLabelIDByName, &f.LabelIDs},
	}

	for _, l := range lookups {
		names, _ := cmd.Flags().GetStringSlice(l.flag)
		for _, name := range names {
			id, err := l.resolve(name)
			if err != nil {
				return f, fmt.Errorf("failed to look up %s %q: %w", l.flag, name, err)
			}
			if id == 0 {
				return f, fmt.Errorf("unknown %s: %q", l.flag, name)
			}
			*l.dest = append(*l.dest, id)
		}
	}

	notes, _ := cmd.Flags().GetStringSlice("note")
	for _, note := range notes {
		fieldID, value, err := parseNoteFilter(note)
		if err != nil {
			return f, err
		}
		if f.CustomFieldFilters == nil {
			f.CustomFieldFilters = make(map[int64][]string)
		}
		f.CustomFieldFilters[fieldID] = append(f.CustomFieldFilters[fieldID], value)
	}

	return f, nil
}

// clip shortens a cell to max runes; 0 means no limit
func clip(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func parseNoteFilter(raw string) (int64, string, error) {
	idPart, value, ok := strings.Cut(raw, "=")
	if !ok {
		return 0, "", fmt.Errorf("invalid --note filter %q (expected id=value)", raw)
	}
	fieldID, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || fieldID < 0 {
		return 0, "", fmt.Errorf("invalid --note field id %q", idPart)
	}
	return fieldID, value, nil
}
