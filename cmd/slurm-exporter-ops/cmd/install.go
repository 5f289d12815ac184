package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <archive>",
	Short: "Install the exporter from a release tarball",
	Args:  cobra.ExactArgs(1),
	RunE:  runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	installer, err := newInstaller()
	if err != nil {
		return fmt.Errorf("slurm-exporter-ops install: %w", err)
	}

	if err := installer.Install(args[0]); err != nil {
		return fmt.Errorf("slurm-exporter-ops install: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "prometheus-slurm-exporter installed successfully")
	return nil
}
