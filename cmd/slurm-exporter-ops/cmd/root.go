// Package cmd implements the slurm-exporter-ops CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnivector-solutions/slurm-exporter-ops/internal/packaging"
)

var (
	cfgFile     string
	logLevel    string
	templateDir string
)

// Build info set from main.
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

// SetVersionInfo sets the version info from build-time ldflags.
func SetVersionInfo(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("slurm-exporter-ops version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

var rootCmd = &cobra.Command{
	Use:   "slurm-exporter-ops",
	Short: "slurm-exporter-ops manages the Prometheus Slurm exporter service",
	Long: "slurm-exporter-ops installs the Prometheus Slurm exporter from a release tarball,\n" +
		"creates its system account, writes its systemd unit and environment file,\n" +
		"and starts or removes the service on a Slurm node.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "install config file path (YAML, optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&templateDir, "template-dir", "", "directory with unit and environment templates (overrides config)")

	rootCmd.Version = buildVersion
	rootCmd.SetVersionTemplate(fmt.Sprintf("slurm-exporter-ops version {{.Version}}\ncommit: %s\nbuilt: %s\n", buildCommit, buildDate))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newInstaller builds an Installer against the host from the persistent flags.
func newInstaller() (*packaging.Installer, error) {
	cfg := packaging.InstallConfig{}
	if cfgFile != "" {
		loaded, err := packaging.LoadConfig(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if templateDir != "" {
		cfg.TemplateDir = templateDir
	}

	runner := packaging.NewCommandRunner()
	return packaging.NewInstaller(cfg, packaging.NewSystemdController(runner), runner, packaging.NewRootChecker(), setupLogger(logLevel))
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
