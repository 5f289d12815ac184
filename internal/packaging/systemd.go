package packaging

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// realSystemdController implements SystemdController by running systemctl.
type realSystemdController struct {
	runner CommandRunner
}

// NewSystemdController returns a SystemdController that calls the real
// systemctl binary through runner.
func NewSystemdController(runner CommandRunner) SystemdController {
	return &realSystemdController{runner: runner}
}

func (c *realSystemdController) IsAvailable() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

// DaemonReload takes no unit argument.
func (c *realSystemdController) DaemonReload() CommandResult {
	return c.runner.Run("systemctl", "daemon-reload")
}

func (c *realSystemdController) Start(unit string) CommandResult {
	return c.run("start", unit)
}

func (c *realSystemdController) Stop(unit string) CommandResult {
	return c.run("stop", unit)
}

func (c *realSystemdController) Restart(unit string) CommandResult {
	return c.run("restart", unit)
}

func (c *realSystemdController) Enable(unit string) CommandResult {
	return c.run("enable", unit)
}

func (c *realSystemdController) Disable(unit string) CommandResult {
	return c.run("disable", unit)
}

func (c *realSystemdController) IsActive(unit string) bool {
	return !c.runner.Run("systemctl", "is-active", "--quiet", unit).Failed()
}

func (c *realSystemdController) run(subcommand, unit string) CommandResult {
	return c.runner.Run("systemctl", subcommand, unit)
}

// realRootChecker implements RootChecker using the effective UID.
type realRootChecker struct{}

// NewRootChecker returns a RootChecker that checks the real process credentials.
func NewRootChecker() RootChecker {
	return &realRootChecker{}
}

func (c *realRootChecker) IsRoot() bool {
	return unix.Geteuid() == 0
}
