package packaging

import (
	"strings"
	"testing"
)

func renderDefaultUnit(t *testing.T, cfg InstallConfig) string {
	t.Helper()
	text, err := EmbeddedTemplates().Template(DefaultServiceName + ".tmpl")
	if err != nil {
		t.Fatal(err)
	}
	out, err := Render("unit", text, UnitContext(cfg))
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	return out
}

func TestUnitContext_Defaults(t *testing.T) {
	ctx := UnitContext(InstallConfig{})

	want := map[string]string{
		"binary_path":      DefaultBinaryPath,
		"environment_file": DefaultEnvironmentFile,
		"username":         DefaultUser,
		"groupname":        DefaultGroup,
	}
	if len(ctx) != len(want) {
		t.Errorf("UnitContext() has %d keys, want %d", len(ctx), len(want))
	}
	for k, v := range want {
		if ctx[k] != v {
			t.Errorf("UnitContext()[%q] = %q, want %q", k, ctx[k], v)
		}
	}
}

func TestDefaultUnit_Sections(t *testing.T) {
	output := renderDefaultUnit(t, InstallConfig{})

	for _, want := range []string{
		"[Unit]",
		"[Service]",
		"[Install]",
		"After=network-online.target",
		"Restart=always",
		"WantedBy=multi-user.target",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestDefaultUnit_CustomPaths(t *testing.T) {
	output := renderDefaultUnit(t, InstallConfig{
		BinaryPath:      "/opt/exporter/bin/exporter",
		EnvironmentFile: "/opt/exporter/env",
		User:            "exp",
		Group:           "expgrp",
	})

	for _, want := range []string{
		"ExecStart=/opt/exporter/bin/exporter $ARGS",
		"EnvironmentFile=/opt/exporter/env",
		"User=exp",
		"Group=expgrp",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q, got:\n%s", want, output)
		}
	}
}
