package packaging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omnivector-solutions/slurm-exporter-ops/internal/fsutil"
)

// UnitContext returns the placeholder values for the unit template.
// It calls cfg.ApplyDefaults() to fill in zero-valued fields first.
func UnitContext(cfg InstallConfig) map[string]string {
	cfg.ApplyDefaults()
	return map[string]string{
		"binary_path":      cfg.BinaryPath,
		"environment_file": cfg.EnvironmentFile,
		"username":         cfg.User,
		"groupname":        cfg.Group,
	}
}

// installUnit renders the unit template, writes it to UnitFilePath, reloads
// systemd and enables the unit.
func (ins *Installer) installUnit() error {
	ins.logger.Debug("creating systemd unit", "unit", ins.cfg.ServiceName)

	text, err := ins.templates.Template(ins.cfg.UnitTemplate)
	if err != nil {
		return err
	}
	content, err := Render(ins.cfg.UnitTemplate, text, UnitContext(ins.cfg))
	if err != nil {
		return err
	}

	if err := writeFile(ins.cfg.UnitFilePath, content, "write unit file"); err != nil {
		return err
	}
	ins.logger.Info("unit file written", "path", ins.cfg.UnitFilePath)

	ins.observe(ins.systemd.DaemonReload())
	ins.observe(ins.systemd.Enable(ins.cfg.ServiceName))
	return nil
}

// writeFile atomically replaces path with content, creating its directory.
func writeFile(path, content, op string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FilesystemError{Op: fmt.Sprintf("%s: create directory", op), Path: dir, Err: err}
	}
	if err := fsutil.WriteFileAtomic(dir, filepath.Base(path), []byte(content), 0o644); err != nil {
		return &FilesystemError{Op: op, Path: path, Err: err}
	}
	return nil
}
