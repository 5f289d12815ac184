package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the exporter service, binary and account",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	installer, err := newInstaller()
	if err != nil {
		return fmt.Errorf("slurm-exporter-ops uninstall: %w", err)
	}

	if err := installer.Uninstall(); err != nil {
		return fmt.Errorf("slurm-exporter-ops uninstall: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "prometheus-slurm-exporter uninstalled successfully")
	return nil
}
