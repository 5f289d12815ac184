package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:     "configure key=value...",
	Short:   "Write the exporter environment file and restart the service",
	Example: "  slurm-exporter-ops configure listen_address=0.0.0.0:9092",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	params, err := parseParams(args)
	if err != nil {
		return fmt.Errorf("slurm-exporter-ops configure: %w", err)
	}

	installer, err := newInstaller()
	if err != nil {
		return fmt.Errorf("slurm-exporter-ops configure: %w", err)
	}

	if err := installer.Configure(params); err != nil {
		return fmt.Errorf("slurm-exporter-ops configure: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "prometheus-slurm-exporter configured")
	return nil
}

// parseParams turns key=value arguments into template values. A later
// argument overrides an earlier one with the same key.
func parseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
