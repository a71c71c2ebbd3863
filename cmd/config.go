package cmd

import (
	"fmt"
	"os"

	"github.com/lmarden/volpack/internal/backup"
	"github.com/lmarden/volpack/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage volpack configuration",
	Long:  "manage global volpack configuration settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "show the current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		configManager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", errorStyle.Render("[error]"), err)
			os.Exit(1)
		}

		cfg := configManager.GetConfig()

		fmt.Println(titleStyle.Render("==> configuration"))
		fmt.Println()
		fmt.Printf("  %s %s\n", labelStyle.Render("file:"), dimStyle.Render(configManager.Path()))
		fmt.Println()

		directory := cfg.Backup.Directory
		if directory == "" {
			directory = "(not set)"
		}
		image := cfg.Backup.Image
		if image == "" {
			image = fmt.Sprintf("(default: %s)", backup.DefaultImage)
		}

		fmt.Printf("  %s %s\n", labelStyle.Render("directory:"), valueStyle.Render(directory))
		fmt.Printf("  %s %s\n", labelStyle.Render("image:"), valueStyle.Render(image))
		if len(cfg.Backup.Ignore) > 0 {
			fmt.Printf("  %s\n", labelStyle.Render("ignore:"))
			for _, pattern := range cfg.Backup.Ignore {
				fmt.Printf("    %s\n", dimStyle.Render(pattern))
			}
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  directory   default backup directory
  image       image used for archival job containers

Examples:
  volpack config set directory /backups
  volpack config set image busybox:latest`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		configManager, err := config.NewManager()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", errorStyle.Render("[error]"), err)
			os.Exit(1)
		}

		cfg := configManager.GetConfig()
		switch key {
		case "directory":
			cfg.Backup.Directory = value
		case "image":
			cfg.Backup.Image = value
		default:
			fmt.Fprintf(os.Stderr, "%s unknown config key: %s\n", errorStyle.Render("[error]"), key)
			os.Exit(1)
		}

		if err := configManager.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed to save config: %v\n", errorStyle.Render("[error]"), err)
			os.Exit(1)
		}

		fmt.Println(successStyle.Render("  [done]") + fmt.Sprintf(" %s set to %s", key, value))
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
