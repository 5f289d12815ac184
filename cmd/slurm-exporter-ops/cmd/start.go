package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the exporter service",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// runStart exits non-zero when systemctl fails so scripts can react; the
// installer itself only logs the failure.
func runStart(cmd *cobra.Command, _ []string) error {
	installer, err := newInstaller()
	if err != nil {
		return fmt.Errorf("slurm-exporter-ops start: %w", err)
	}

	res := installer.Start()
	if res.Err != nil {
		return fmt.Errorf("slurm-exporter-ops start: %s: %w", res, res.Err)
	}
	if res.Failed() {
		return fmt.Errorf("slurm-exporter-ops start: %s exited with status %d", res, res.ExitCode)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "prometheus-slurm-exporter started")
	return nil
}
