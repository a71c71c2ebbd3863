package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lmarden/volpack/internal/backup"
	"github.com/lmarden/volpack/internal/config"
	"github.com/lmarden/volpack/internal/docker"
	"github.com/lmarden/volpack/internal/progress"
	"github.com/spf13/cobra"
)

var restoreDirectory string

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore Docker volumes from a backup directory",
	Long: `Extract every <volume>_<date>.tar.gz archive found in the backup
directory into its volume. Missing volumes are created first; archives
whose names do not follow the backup naming convention are skipped
with a warning.

Examples:
  volpack restore -d /backups`,
	Run: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().StringVarP(&restoreDirectory, "backup-directory", "d", "", "directory containing volume backup files")
}

func runRestore(cmd *cobra.Command, args []string) {
	configManager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}
	cfg := configManager.GetConfig()

	dir := restoreDirectory
	if dir == "" {
		dir = cfg.Backup.Directory
	}

	dockerClient, err := docker.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to initialize docker client: %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}
	defer dockerClient.Close()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Restoring Docker volumes from %s", dir)))

	renderer := progress.NewRenderer(os.Stdout)
	orchestrator := backup.NewOrchestrator(dockerClient, cfg.Backup.Image, renderer, renderer)

	err = orchestrator.Restore(context.Background(), backup.RestoreOptions{
		Directory: dir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("Finished Successfully"))
}
