package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fbm3334/recordshelf/internal/discogs"
	"github.com/fbm3334/recordshelf/internal/store"
	"github.com/fbm3334/recordshelf/internal/syncer"
	"github.com/fbm3334/recordshelf/internal/util"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the Discogs collection into the local database",
	Long: `Fetch the full collection from Discogs and upsert it into the local
database, then fill in sort names for artists that do not have one yet.

The sync is incremental: releases already in the database are updated in
place, and the date a release was first added is preserved. By default
sort names are only fetched from Discogs for artists whose name starts
with a leading article (The, A, La, ...); use --thorough to look up
every unresolved artist.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("thorough", false, "look up sort names for every unresolved artist, not just likely ones")
	viper.BindPFlag("thorough_name_fetch", syncCmd.Flags().Lookup("thorough"))
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	thorough := viper.GetBool("thorough_name_fetch")

	token := GetConfigString("token", "")
	if token == "" {
		return fmt.Errorf("no Discogs token configured (run 'shelf token <token>' or set SHELF_TOKEN)")
	}

	dbPath := viper.GetString("db")
	util.DebugLog("Opening database: %s", dbPath)

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	client := discogs.NewClient(token)
	defer client.Close()

	s := syncer.New(db, client, thorough)

	showBars := !util.IsQuiet() && util.IsTerminal(os.Stderr.Fd())

	var (
		bar      *progressbar.ProgressBar
		barStage string
	)
	progress := func(stage string, completed, total int) {
		if !showBars {
			return
		}
		if bar == nil || stage != barStage {
			if bar != nil {
				bar.Finish()
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription(stage),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionThrottle(200*time.Millisecond),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetRenderBlankState(true),
			)
			barStage = stage
		}
		bar.Set(completed)
	}

	start := time.Now()

	var task syncer.Task
	if err := task.Start(func() error {
		return s.Run(ctx, progress)
	}); err != nil {
		return err
	}

	if err := task.Wait(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	if bar != nil {
		bar.Finish()
	}

	util.SuccessLog("Sync complete in %v", time.Since(start).Round(time.Millisecond))

	total, err := db.CountReleases()
	if err == nil {
		util.InfoLog("Releases in collection: %d", total)
	}

	return nil
}
