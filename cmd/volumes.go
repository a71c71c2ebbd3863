package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lmarden/volpack/internal/backup"
	"github.com/lmarden/volpack/internal/docker"
	"github.com/lmarden/volpack/internal/utils"
	"github.com/spf13/cobra"
)

var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "List volumes with their disk usage",
	Long:  "List all volumes known to the runtime together with their aggregate on-disk size",
	Run:   runVolumes,
}

func init() {
	rootCmd.AddCommand(volumesCmd)
}

func runVolumes(cmd *cobra.Command, args []string) {
	dockerClient, err := docker.NewClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed to initialize docker client: %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}
	defer dockerClient.Close()

	fmt.Println(titleStyle.Render("==> volumes"))
	fmt.Println()

	ctx := context.Background()
	names, err := dockerClient.ListVolumes(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[error]"), err)
		os.Exit(1)
	}

	if len(names) == 0 {
		fmt.Println(dimStyle.Render("  no volumes found"))
		return
	}

	sizes := backup.ProbeSizes(ctx, dockerClient, names)

	var total int64
	for _, name := range names {
		fmt.Printf("  %s\n", valueStyle.Render(name))
		fmt.Printf("    size: %s\n", dimStyle.Render(utils.FormatBytes(sizes[name])))
		total += sizes[name]
	}

	fmt.Println()
	fmt.Printf("  %s %s\n", labelStyle.Render("total:"), valueStyle.Render(utils.FormatBytes(total)))
}
