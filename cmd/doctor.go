package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lmarden/volpack/internal/config"
	"github.com/lmarden/volpack/internal/docker"
	"github.com/lmarden/volpack/internal/runtime"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check runtime and configuration health",
	Long:  "Verify that a container runtime is reachable and the configuration is usable",
	Run:   runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(titleStyle.Render("==> checking system health"))
	fmt.Println()

	allGood := true

	allGood = checkRuntime() && allGood
	allGood = checkConfig() && allGood

	fmt.Println()
	if allGood {
		fmt.Println(successStyle.Render("  [done] all checks passed"))
	} else {
		fmt.Println(errorStyle.Render("  [error] some checks failed"))
		os.Exit(1)
	}
}

func checkRuntime() bool {
	fmt.Println(labelStyle.Render("  runtime"))

	info, err := runtime.DetectRuntime()
	if err != nil {
		fmt.Printf("    %s runtime not detected\n", errorStyle.Render("[✗]"))
		fmt.Printf("      %s\n", dimStyle.Render(err.Error()))
		fmt.Printf("      %s\n", dimStyle.Render("install docker or podman to continue"))
		return false
	}

	fmt.Printf("    %s %s detected\n", successStyle.Render("[✓]"), valueStyle.Render(info.GetRuntimeName()))
	fmt.Printf("      %s %s\n", dimStyle.Render("version:"), dimStyle.Render(info.Version))
	fmt.Printf("      %s %s\n", dimStyle.Render("socket:"), dimStyle.Render(info.SocketPath))

	dockerClient, err := docker.NewClient()
	if err != nil {
		fmt.Printf("    %s runtime daemon not responding\n", errorStyle.Render("[✗]"))
		fmt.Printf("      %s\n", dimStyle.Render(err.Error()))
		return false
	}
	defer dockerClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := dockerClient.GetClient().Ping(ctx); err != nil {
		fmt.Printf("    %s runtime daemon not responding\n", errorStyle.Render("[✗]"))
		fmt.Printf("      %s\n", dimStyle.Render(err.Error()))
		return false
	}

	fmt.Printf("    %s daemon running\n", successStyle.Render("[✓]"))
	return true
}

func checkConfig() bool {
	fmt.Println()
	fmt.Println(labelStyle.Render("  configuration"))

	configManager, err := config.NewManager()
	if err != nil {
		fmt.Printf("    %s cannot load config\n", errorStyle.Render("[✗]"))
		fmt.Printf("      %s\n", dimStyle.Render(err.Error()))
		return false
	}

	cfg := configManager.GetConfig()
	fmt.Printf("    %s config readable\n", successStyle.Render("[✓]"))
	fmt.Printf("      %s %s\n", dimStyle.Render("path:"), dimStyle.Render(configManager.Path()))

	if cfg.Backup.Directory == "" {
		fmt.Printf("      %s\n", dimStyle.Render("no default backup directory set (pass -d or run 'volpack config set directory <dir>')"))
		return true
	}

	info, err := os.Stat(cfg.Backup.Directory)
	if err != nil || !info.IsDir() {
		fmt.Printf("    %s default backup directory %s is not usable\n", errorStyle.Render("[✗]"), valueStyle.Render(cfg.Backup.Directory))
		return false
	}

	fmt.Printf("    %s default backup directory %s\n", successStyle.Render("[✓]"), valueStyle.Render(cfg.Backup.Directory))
	return true
}
