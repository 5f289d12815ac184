package packaging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallConfig_ApplyDefaults(t *testing.T) {
	cfg := InstallConfig{}
	cfg.ApplyDefaults()

	tests := []struct {
		field string
		got   string
		want  string
	}{
		{"BinaryPath", cfg.BinaryPath, "/usr/bin/prometheus-slurm-exporter"},
		{"ArchiveMember", cfg.ArchiveMember, "prometheus-slurm-exporter"},
		{"DataDir", cfg.DataDir, "/var/lib/slurm_exporter"},
		{"ServiceName", cfg.ServiceName, "prometheus-slurm-exporter.service"},
		{"UnitFilePath", cfg.UnitFilePath, "/etc/systemd/system/prometheus-slurm-exporter.service"},
		{"EnvironmentFile", cfg.EnvironmentFile, "/etc/default/prometheus-slurm-exporter"},
		{"User", cfg.User, "prometheus_slurm_exporter"},
		{"Group", cfg.Group, "prometheus_slurm_exporter"},
		{"NologinShell", cfg.NologinShell, "/usr/sbin/nologin"},
		{"UnitTemplate", cfg.UnitTemplate, "prometheus-slurm-exporter.service.tmpl"},
		{"EnvironmentTemplate", cfg.EnvironmentTemplate, "prometheus-slurm-exporter.tmpl"},
		{"TempDirPrefix", cfg.TempDirPrefix, "omni"},
		{"TemplateDir", cfg.TemplateDir, ""},
		{"TempDir", cfg.TempDir, ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
}

func TestInstallConfig_DerivedDefaultsFollowServiceName(t *testing.T) {
	cfg := InstallConfig{ServiceName: "slurm-exporter.service"}
	cfg.ApplyDefaults()

	if cfg.UnitFilePath != "/etc/systemd/system/slurm-exporter.service" {
		t.Errorf("UnitFilePath = %q", cfg.UnitFilePath)
	}
	if cfg.UnitTemplate != "slurm-exporter.service.tmpl" {
		t.Errorf("UnitTemplate = %q", cfg.UnitTemplate)
	}
}

func TestInstallConfig_CustomValues(t *testing.T) {
	cfg := InstallConfig{
		BinaryPath:      "/opt/exporter/bin/exporter",
		DataDir:         "/opt/exporter/data",
		UnitFilePath:    "/usr/lib/systemd/system/exporter.service",
		EnvironmentFile: "/opt/exporter/env",
		User:            "exp",
		Group:           "expgrp",
	}
	cfg.ApplyDefaults()

	if cfg.BinaryPath != "/opt/exporter/bin/exporter" {
		t.Errorf("BinaryPath = %q", cfg.BinaryPath)
	}
	if cfg.DataDir != "/opt/exporter/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.UnitFilePath != "/usr/lib/systemd/system/exporter.service" {
		t.Errorf("UnitFilePath = %q", cfg.UnitFilePath)
	}
	if cfg.EnvironmentFile != "/opt/exporter/env" {
		t.Errorf("EnvironmentFile = %q", cfg.EnvironmentFile)
	}
	if cfg.User != "exp" || cfg.Group != "expgrp" {
		t.Errorf("User/Group = %q/%q", cfg.User, cfg.Group)
	}
}

func TestInstallConfig_Validate(t *testing.T) {
	valid := func() InstallConfig {
		cfg := InstallConfig{}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*InstallConfig)
		wantErr string
	}{
		{"defaults", func(*InstallConfig) {}, ""},
		{"empty user", func(c *InstallConfig) { c.User = "" }, "User is required"},
		{"empty group", func(c *InstallConfig) { c.Group = "" }, "Group is required"},
		{"empty binary", func(c *InstallConfig) { c.BinaryPath = "" }, "BinaryPath is required"},
		{"relative binary", func(c *InstallConfig) { c.BinaryPath = "bin/exporter" }, "BinaryPath must be an absolute path"},
		{"relative unit", func(c *InstallConfig) { c.UnitFilePath = "exporter.service" }, "UnitFilePath must be an absolute path"},
		{"nested member", func(c *InstallConfig) { c.ArchiveMember = "bin/exporter" }, "ArchiveMember"},
		{"relative template dir", func(c *InstallConfig) { c.TemplateDir = "templates" }, "TemplateDir must be an absolute path"},
		{"absolute temp dir", func(c *InstallConfig) { c.TempDir = "/var/tmp" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exporter-ops.yaml")
	content := `binary_path: /opt/exporter/bin/exporter
user: exp
group: expgrp
template_dir: /opt/exporter/templates
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.BinaryPath != "/opt/exporter/bin/exporter" {
		t.Errorf("BinaryPath = %q", cfg.BinaryPath)
	}
	if cfg.User != "exp" || cfg.Group != "expgrp" {
		t.Errorf("User/Group = %q/%q", cfg.User, cfg.Group)
	}
	if cfg.TemplateDir != "/opt/exporter/templates" {
		t.Errorf("TemplateDir = %q", cfg.TemplateDir)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want default %q", cfg.DataDir, DefaultDataDir)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) = nil, want error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("binary_path: [unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("LoadConfig(bad) = %v, want parse error", err)
	}

	relative := filepath.Join(dir, "relative.yaml")
	if err := os.WriteFile(relative, []byte("data_dir: var/lib/exporter\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(relative); err == nil {
		t.Error("LoadConfig(relative) = nil, want validation error")
	}
}
