package main

import (
	"fmt"
	"sort"

	"github.com/fbm3334/recordshelf/internal/store"
	"github.com/fbm3334/recordshelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Show the filter values available in the collection",
	Long: `List every value that can be passed to the list command's filter
flags: artists, genres, styles, labels, formats and custom field notes.

Custom field values always include the [Blanks] entry, which matches
releases that have no value for that field.`,
	RunE: runFilters,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}

func runFilters(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	db, err := store.Open(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	artists, err := db.GetAllArtists()
	if err != nil {
		return fmt.Errorf("failed to get artists: %w", err)
	}
	fmt.Printf("Artists (%d):\n", len(artists))
	for _, a := range artists {
		fmt.Printf("  %s\n", a.Name)
	}

	sections := []struct {
		title string
		fetch func() ([]store.NamedEntity, error)
	}{
		{"Genres", db.GetAllGenres},
		{"Styles", db.GetAllStyles},
		{"Labels", db.GetAllLabels},
	}

	for _, section := range sections {
		entries, err := section.fetch()
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", section.title, err)
		}
		fmt.Printf("\n%s (%d):\n", section.title, len(entries))
		for _, e := range entries {
			fmt.Printf("  %s\n", e.Name)
		}
	}

	formats, err := db.GetUniqueFormats()
	if err != nil {
		return fmt.Errorf("failed to get formats: %w", err)
	}
	fmt.Printf("\nFormats (%d):\n", len(formats))
	for _, f := range formats {
		fmt.Printf("  %s\n", f)
	}

	custom, err := db.GetAllCustomFieldValues()
	if err != nil {
		return fmt.Errorf("failed to get custom field values: %w", err)
	}

	fieldIDs := make([]int64, 0, len(custom))
	for id := range custom {
		fieldIDs = append(fieldIDs, id)
	}
	sort.Slice(fieldIDs, func(i, j int) bool { return fieldIDs[i] < fieldIDs[j] })

	for _, id := range fieldIDs {
		fmt.Printf("\nCustom field %d:\n", id)
		for _, value := range custom[id] {
			fmt.Printf("  %s\n", value)
		}
	}

	return nil
}
