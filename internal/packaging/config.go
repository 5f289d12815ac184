// Package packaging installs, configures and removes the Prometheus Slurm
// exporter as a systemd service on the local host.
package packaging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// InstallConfig holds the paths and names the Installer operates on.
// InstallConfig is passed as a constructor argument; LoadConfig is the only
// place it is read from disk.
type InstallConfig struct {
	// BinaryPath is the path to install the exporter binary.
	// Default: /usr/bin/prometheus-slurm-exporter
	BinaryPath string `yaml:"binary_path"`

	// ArchiveMember is the name of the binary at the root of the resource tarball.
	// Default: prometheus-slurm-exporter
	ArchiveMember string `yaml:"archive_member"`

	// DataDir is the exporter's runtime data directory and the home
	// directory of its system user.
	// Default: /var/lib/slurm_exporter
	DataDir string `yaml:"data_dir"`

	// ServiceName is the systemd unit name.
	// Default: prometheus-slurm-exporter.service
	ServiceName string `yaml:"service_name"`

	// UnitFilePath is the path for the systemd unit file.
	// Default: /etc/systemd/system/<ServiceName>
	UnitFilePath string `yaml:"unit_file_path"`

	// EnvironmentFile is the path of the environment file read by the unit.
	// Default: /etc/default/prometheus-slurm-exporter
	EnvironmentFile string `yaml:"environment_file"`

	// User is the unprivileged system user the exporter runs as.
	// Default: prometheus_slurm_exporter
	User string `yaml:"user"`

	// Group is the primary group of User.
	// Default: prometheus_slurm_exporter
	Group string `yaml:"group"`

	// NologinShell is the login shell assigned to User.
	// Default: /usr/sbin/nologin
	NologinShell string `yaml:"nologin_shell"`

	// TemplateDir holds the unit and environment templates. When empty the
	// templates compiled into the binary are used.
	TemplateDir string `yaml:"template_dir"`

	// UnitTemplate is the unit template file name.
	// Default: <ServiceName>.tmpl
	UnitTemplate string `yaml:"unit_template"`

	// EnvironmentTemplate is the environment template file name.
	// Default: prometheus-slurm-exporter.tmpl
	EnvironmentTemplate string `yaml:"environment_template"`

	// TempDir is the parent of the extraction directory. Empty means os.TempDir().
	TempDir string `yaml:"temp_dir"`

	// TempDirPrefix prefixes the extraction directory name.
	// Default: omni
	TempDirPrefix string `yaml:"temp_dir_prefix"`
}

// DefaultBinaryPath is the default path to install the exporter binary.
const DefaultBinaryPath = "/usr/bin/prometheus-slurm-exporter"

// DefaultArchiveMember is the default binary name inside the resource tarball.
const DefaultArchiveMember = "prometheus-slurm-exporter"

// DefaultDataDir is the default runtime data directory.
const DefaultDataDir = "/var/lib/slurm_exporter"

// DefaultServiceName is the default systemd unit name.
const DefaultServiceName = "prometheus-slurm-exporter.service"

// DefaultUnitDir is the directory unit files are written to by default.
const DefaultUnitDir = "/etc/systemd/system"

// DefaultEnvironmentFile is the default environment file path.
const DefaultEnvironmentFile = "/etc/default/prometheus-slurm-exporter"

// DefaultUser is the default exporter system user.
const DefaultUser = "prometheus_slurm_exporter"

// DefaultGroup is the default exporter system group.
const DefaultGroup = "prometheus_slurm_exporter"

// DefaultNologinShell is the default login shell for the exporter user.
const DefaultNologinShell = "/usr/sbin/nologin"

// DefaultEnvironmentTemplate is the default environment template file name.
const DefaultEnvironmentTemplate = "prometheus-slurm-exporter.tmpl"

// DefaultTempDirPrefix is the default extraction directory prefix.
const DefaultTempDirPrefix = "omni"

// ApplyDefaults sets default values for zero-valued fields.
func (c *InstallConfig) ApplyDefaults() {
	if c.BinaryPath == "" {
		c.BinaryPath = DefaultBinaryPath
	}
	if c.ArchiveMember == "" {
		c.ArchiveMember = DefaultArchiveMember
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.UnitFilePath == "" {
		c.UnitFilePath = filepath.Join(DefaultUnitDir, c.ServiceName)
	}
	if c.EnvironmentFile == "" {
		c.EnvironmentFile = DefaultEnvironmentFile
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	if c.Group == "" {
		c.Group = DefaultGroup
	}
	if c.NologinShell == "" {
		c.NologinShell = DefaultNologinShell
	}
	if c.UnitTemplate == "" {
		c.UnitTemplate = c.ServiceName + ".tmpl"
	}
	if c.EnvironmentTemplate == "" {
		c.EnvironmentTemplate = DefaultEnvironmentTemplate
	}
	if c.TempDirPrefix == "" {
		c.TempDirPrefix = DefaultTempDirPrefix
	}
}

// Validate checks that required fields are set and paths are absolute.
func (c *InstallConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"BinaryPath", c.BinaryPath},
		{"ArchiveMember", c.ArchiveMember},
		{"DataDir", c.DataDir},
		{"ServiceName", c.ServiceName},
		{"UnitFilePath", c.UnitFilePath},
		{"EnvironmentFile", c.EnvironmentFile},
		{"User", c.User},
		{"Group", c.Group},
		{"NologinShell", c.NologinShell},
		{"UnitTemplate", c.UnitTemplate},
		{"EnvironmentTemplate", c.EnvironmentTemplate},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("packaging: config: %s is required", f.name)
		}
	}

	paths := []struct {
		name  string
		value string
	}{
		{"BinaryPath", c.BinaryPath},
		{"DataDir", c.DataDir},
		{"UnitFilePath", c.UnitFilePath},
		{"EnvironmentFile", c.EnvironmentFile},
	}
	for _, p := range paths {
		if !filepath.IsAbs(p.value) {
			return fmt.Errorf("packaging: config: %s must be an absolute path, got %q", p.name, p.value)
		}
	}

	optional := []struct {
		name  string
		value string
	}{
		{"TemplateDir", c.TemplateDir},
		{"TempDir", c.TempDir},
	}
	for _, p := range optional {
		if p.value != "" && !filepath.IsAbs(p.value) {
			return fmt.Errorf("packaging: config: %s must be an absolute path, got %q", p.name, p.value)
		}
	}

	if filepath.Base(c.ArchiveMember) != c.ArchiveMember {
		return errors.New("packaging: config: ArchiveMember must be a bare file name")
	}
	return nil
}

// LoadConfig reads a YAML override file and returns an InstallConfig.
// Fields absent from the file keep their defaults.
func LoadConfig(path string) (*InstallConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("packaging: config: read %s: %w", path, err)
	}
	var cfg InstallConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("packaging: config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
