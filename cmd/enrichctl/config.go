package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/enrichhq/enrichctl/internal/config"
	"github.com/enrichhq/enrichctl/internal/render"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage enrichctl configuration",
	Long:  `View enrichctl client configuration and where it is stored.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file paths",
	Long:  `Display paths to existing enrichctl configuration files and directories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logger.Error("Error loading config: %v", err)
			os.Exit(1)
		}

		fmt.Printf("Configuration directory: %s\n", cfg.Home)

		// Only show files/directories that actually exist
		settingsPath := config.SettingsPath(cfg.Home)
		if _, err := os.Stat(settingsPath); err == nil {
			fmt.Printf("Settings file:          %s\n", settingsPath)
		}

		if _, err := os.Stat(cfg.CacheDir()); err == nil {
			fmt.Printf("Cache directory:        %s\n", cfg.CacheDir())
			entries, _ := filepath.Glob(filepath.Join(cfg.CacheDir(), "*.json"))
			for _, e := range entries {
				fmt.Printf("  - %s\n", e)
			}
		}

		if _, err := os.Stat(cfg.ExportDir); err == nil {
			fmt.Printf("Export directory:       %s\n", cfg.ExportDir)
		}

		if _, err := os.Stat(cfg.LogFile); err == nil {
			fmt.Printf("Log file:               %s\n", cfg.LogFile)
		}

		if _, err := os.Stat(settingsPath); os.IsNotExist(err) && cfg.APIToken == "" {
			fmt.Printf("\nNo credentials found. Run 'enrichctl login --token YOUR_API_TOKEN' to set up.\n")
		}
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective enrichctl configuration in JSON format. The API token is masked.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			logger.Error("Error loading config: %v", err)
			os.Exit(1)
		}

		shown := *cfg
		shown.APIToken = render.MaskSecret(cfg.APIToken)

		data, err := json.MarshalIndent(shown, "", "  ")
		if err != nil {
			logger.Error("Failed to marshal config: %v", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

// initConfigCommands sets up all config-related commands
func initConfigCommands() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
