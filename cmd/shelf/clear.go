package main

import (
	"fmt"
	"os"

	"github.com/fbm3334/recordshelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local collection database",
	Long: `Remove the collection database and its WAL sidecar files. The next
sync rebuilds the database from scratch.`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	dbPath := viper.GetString("db")

	removed := false
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		err := os.Remove(path)
		if err == nil {
			removed = true
			util.DebugLog("Removed %s", path)
			continue
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	if !removed {
		util.InfoLog("No database found at %s", dbPath)
		return nil
	}

	util.SuccessLog("Cleared collection database: %s", dbPath)
	return nil
}
