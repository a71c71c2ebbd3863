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

var (
	backupDirectory string
	backupInclude   []string
	backupIgnore    []string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup Docker volumes to a directory",
	Long: `Archive named volumes into compressed tarballs.

Each volume is packed by a short-lived helper container into
<volume>_<date>.tar.gz inside the backup directory. Volumes can be
filtered with repeatable regex patterns; excludes always apply after
includes. A failed volume never stops the rest of the batch.

Examples:
  volpack backup -d /backups
  volpack backup -d /backups -i 'app_.*'
  volpack backup -d /backups -i 'app_.*' -I 'cache' --verbose`,
	Run: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVarP(&backupDirectory, "backup-directory", "d", "", "directory where volume backups are stored")
	backupCmd.Flags().StringArrayVarP(&backupInclude, "include", "i", nil, "regex pattern to include specific volumes (can be repeated)")
	backupCmd.Flags().StringArrayVarP(&backupIgnore, "ignore", "I", nil, "regex pattern to ignore specific volumes (can be repeated)")
}

func runBackup(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")

	configManager, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to load config: %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}
	cfg := configManager.GetConfig()

	dir := backupDirectory
	if dir == "" {
		dir = cfg.Backup.Directory
	}

	ignore := append(append([]string{}, cfg.Backup.Ignore...), backupIgnore...)

	dockerClient, err := docker.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to initialize docker client: %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}
	defer dockerClient.Close()

	fmt.Println(titleStyle.Render(fmt.Sprintf("Backing up Docker volumes to %s", dir)))
	fmt.Println(infoStyle.Render("Calculating volume sizes..."))

	renderer := progress.NewRenderer(os.Stdout)
	orchestrator := backup.NewOrchestrator(dockerClient, cfg.Backup.Image, renderer, renderer)

	err = orchestrator.Backup(context.Background(), backup.BackupOptions{
		Directory: dir,
		Include:   backupInclude,
		Ignore:    ignore,
		Verbose:   verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("Finished Successfully"))
}
