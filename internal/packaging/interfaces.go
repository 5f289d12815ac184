package packaging

// SystemdController abstracts systemd service management for testability.
// Every state-changing method returns the CommandResult of the systemctl
// invocation instead of an error; the caller decides whether it matters.
type SystemdController interface {
	// IsAvailable returns true if systemd (systemctl) is available on the system.
	IsAvailable() bool

	// DaemonReload executes systemctl daemon-reload to reload unit file changes.
	DaemonReload() CommandResult

	// Start starts the named unit.
	Start(unit string) CommandResult

	// Stop stops the named unit.
	Stop(unit string) CommandResult

	// Restart restarts the named unit.
	Restart(unit string) CommandResult

	// Enable enables the named unit to start on boot.
	Enable(unit string) CommandResult

	// Disable disables the named unit from starting on boot.
	Disable(unit string) CommandResult

	// IsActive returns true if the named unit is currently running.
	IsActive(unit string) bool
}

// CommandRunner runs a host command to completion.
type CommandRunner interface {
	Run(name string, args ...string) CommandResult
}

// RootChecker abstracts privilege checking for testability.
type RootChecker interface {
	// IsRoot returns true if the current process has root privileges.
	IsRoot() bool
}

// TemplateSource supplies raw template text by file name.
type TemplateSource interface {
	Template(name string) (string, error)
}
