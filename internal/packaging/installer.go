package packaging

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/omnivector-solutions/slurm-exporter-ops/internal/archive"
	"github.com/omnivector-solutions/slurm-exporter-ops/internal/fsutil"
)

// Installer installs, configures, starts and removes the exporter service.
// It assumes it is the only writer of the paths, unit and accounts it manages;
// calls are not synchronized.
type Installer struct {
	cfg       InstallConfig
	systemd   SystemdController
	runner    CommandRunner
	root      RootChecker
	templates TemplateSource
	logger    *slog.Logger
}

// NewInstaller creates a new Installer with defaults applied. Templates are
// read from cfg.TemplateDir, or from the packaged defaults when it is empty.
// It returns an error if the resulting configuration does not validate.
func NewInstaller(cfg InstallConfig, systemd SystemdController, runner CommandRunner, root RootChecker, logger *slog.Logger) (*Installer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var templates TemplateSource = EmbeddedTemplates()
	if cfg.TemplateDir != "" {
		templates = DirTemplates(cfg.TemplateDir)
	}

	return &Installer{
		cfg:       cfg,
		systemd:   systemd,
		runner:    runner,
		root:      root,
		templates: templates,
		logger:    logger.With("component", "packaging"),
	}, nil
}

// Config returns the effective configuration.
func (ins *Installer) Config() InstallConfig {
	return ins.cfg
}

// Install extracts the exporter binary from the tarball at archivePath,
// replaces the installed binary, creates the exporter user and group, and
// writes and enables the systemd unit.
//
// Extraction happens in a private temporary directory that is removed before
// Install returns. If extraction fails the installed binary is left untouched;
// an entry escaping the directory yields an error matching ErrArchiveTraversal.
// Failures of groupadd, useradd and systemctl are logged, not returned.
func (ins *Installer) Install(archivePath string) error {
	ins.logger.Info("installing exporter", "archive", archivePath)
	ins.preflight("install")

	if err := ins.installBinary(archivePath); err != nil {
		return err
	}

	ins.createAccounts()

	if err := ins.installUnit(); err != nil {
		return err
	}

	ins.logger.Info("exporter installed", "binary", ins.cfg.BinaryPath, "unit", ins.cfg.ServiceName)
	return nil
}

// installBinary owns the extraction directory for the duration of the call.
func (ins *Installer) installBinary(archivePath string) error {
	tmpDir, err := os.MkdirTemp(ins.cfg.TempDir, ins.cfg.TempDirPrefix)
	if err != nil {
		return &FilesystemError{Op: "create extraction directory", Path: ins.cfg.TempDir, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			ins.logger.Warn("remove extraction directory", "path", tmpDir, "error", err)
		}
	}()

	ins.logger.Debug("extracting archive", "archive", archivePath, "dir", tmpDir)
	if err := archive.Extract(archivePath, tmpDir, ins.logger); err != nil {
		return fmt.Errorf("packaging: extract %s: %w", archivePath, err)
	}

	src := filepath.Join(tmpDir, ins.cfg.ArchiveMember)
	info, err := os.Lstat(src)
	if err != nil {
		return &FilesystemError{Op: "locate binary in archive", Path: ins.cfg.ArchiveMember, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &FilesystemError{
			Op:   "locate binary in archive",
			Path: ins.cfg.ArchiveMember,
			Err:  errors.New("not a regular file"),
		}
	}

	dst := ins.cfg.BinaryPath
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return &FilesystemError{Op: "create binary directory", Path: filepath.Dir(dst), Err: err}
	}
	if _, err := os.Lstat(dst); err == nil {
		ins.logger.Debug("replacing existing binary", "path", dst)
	}
	if err := fsutil.ReplaceFile(src, dst); err != nil {
		return &FilesystemError{Op: "install binary", Path: dst, Err: err}
	}
	ins.logger.Info("binary installed", "path", dst, "size", info.Size())
	return nil
}

// Configure renders the environment template with params, writes it to the
// environment file and restarts the unit. A placeholder missing from params
// yields a *TemplateError and nothing is written.
func (ins *Installer) Configure(params map[string]string) error {
	ins.logger.Debug("writing environment file",
		"path", ins.cfg.EnvironmentFile,
		"keys", slices.Sorted(maps.Keys(params)),
	)

	text, err := ins.templates.Template(ins.cfg.EnvironmentTemplate)
	if err != nil {
		return err
	}
	content, err := Render(ins.cfg.EnvironmentTemplate, text, params)
	if err != nil {
		return err
	}
	if err := writeFile(ins.cfg.EnvironmentFile, content, "write environment file"); err != nil {
		return err
	}
	ins.logger.Info("environment file written", "path", ins.cfg.EnvironmentFile)

	ins.observe(ins.systemd.Restart(ins.cfg.ServiceName))
	return nil
}

// Start asks systemd to start the unit. The result is logged and returned for
// inspection; it is never an error.
func (ins *Installer) Start() CommandResult {
	res := ins.systemd.Start(ins.cfg.ServiceName)
	ins.observe(res)
	return res
}

// IsActive reports whether the unit is running.
func (ins *Installer) IsActive() bool {
	return ins.systemd.IsActive(ins.cfg.ServiceName)
}

// Uninstall stops and disables the unit, then removes the binary, the data
// directory, the user and group, the unit file and the environment file, and
// reloads systemd.
//
// A binary or data directory that is already gone is not an error. A missing
// unit file or environment file is: Uninstall returns a *FilesystemError
// wrapping fs.ErrNotExist and skips the steps after it.
func (ins *Installer) Uninstall() error {
	ins.logger.Info("uninstalling exporter", "unit", ins.cfg.ServiceName)
	ins.preflight("uninstall")

	ins.observe(ins.systemd.Stop(ins.cfg.ServiceName))
	ins.observe(ins.systemd.Disable(ins.cfg.ServiceName))

	removed, err := fsutil.RemoveIfExists(ins.cfg.BinaryPath)
	if err != nil {
		return &FilesystemError{Op: "remove binary", Path: ins.cfg.BinaryPath, Err: err}
	}
	if !removed {
		ins.logger.Debug("binary already removed", "path", ins.cfg.BinaryPath)
	}

	if _, err := os.Lstat(ins.cfg.DataDir); errors.Is(err, os.ErrNotExist) {
		ins.logger.Debug("data directory already removed", "path", ins.cfg.DataDir)
	} else if err := os.RemoveAll(ins.cfg.DataDir); err != nil {
		return &FilesystemError{Op: "remove data directory", Path: ins.cfg.DataDir, Err: err}
	}

	ins.removeAccounts()

	if err := os.Remove(ins.cfg.UnitFilePath); err != nil {
		return &FilesystemError{Op: "remove unit file", Path: ins.cfg.UnitFilePath, Err: err}
	}
	if err := os.Remove(ins.cfg.EnvironmentFile); err != nil {
		return &FilesystemError{Op: "remove environment file", Path: ins.cfg.EnvironmentFile, Err: err}
	}

	ins.observe(ins.systemd.DaemonReload())
	ins.logger.Info("exporter uninstalled")
	return nil
}

// observe records the outcome of a best-effort command and discards it.
// Exit codes listed in expected describe a state that is already in place.
func (ins *Installer) observe(res CommandResult, expected ...int) {
	switch {
	case !res.Failed():
		ins.logger.Debug("command succeeded", "command", res)
	case res.Err == nil && slices.Contains(expected, res.ExitCode):
		ins.logger.Debug("command found existing state", "command", res)
	default:
		ins.logger.Warn("command failed", "command", res)
	}
}

// preflight warns about conditions under which the host commands will fail.
func (ins *Installer) preflight(op string) {
	if !ins.root.IsRoot() {
		ins.logger.Warn("not running as root; account and service steps will likely fail", "operation", op)
	}
	if !ins.systemd.IsAvailable() {
		ins.logger.Warn("systemctl not found; service steps will fail", "operation", op)
	}
}
