package main

import (
	"context"
	"fmt"

	"github.com/fbm3334/recordshelf/internal/discogs"
	"github.com/fbm3334/recordshelf/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tokenCmd = &cobra.Command{
	Use:   "token <personal-access-token>",
	Short: "Store the Discogs personal access token",
	Long: `Validate a Discogs personal access token and store it in the config
file so future syncs can use it. Tokens can be generated at
https://www.discogs.com/settings/developers.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().Bool("no-verify", false, "save the token without checking it against Discogs")
}

func runToken(cmd *cobra.Command, args []string) error {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))

	token := args[0]
	noVerify, _ := cmd.Flags().GetBool("no-verify")

	if !noVerify {
		client := discogs.NewClient(token)
		defer client.Close()

		identity, err := client.Identity(context.Background())
		if err != nil {
			return fmt.Errorf("token validation failed: %w", err)
		}
		util.InfoLog("Token belongs to Discogs user %s", identity.Username)
	}

	viper.Set("token", token)

	if viper.ConfigFileUsed() != "" {
		if err := viper.WriteConfig(); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
		util.SuccessLog("Token saved to %s", viper.ConfigFileUsed())
		return nil
	}

	if err := viper.WriteConfigAs("settings.yaml"); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	util.SuccessLog("Token saved to settings.yaml")

	return nil
}
