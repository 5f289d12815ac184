package packaging

import (
	"errors"
	"log/slog"
	"os/exec"
	"strings"
)

// CommandResult is the outcome of one host command. Administrative commands
// are best effort: their results are logged by the Installer and never turned
// into errors, so the type keeps the exit status visible at every call site.
type CommandResult struct {
	// Args is the full command line, program name first.
	Args []string

	// ExitCode is the process exit status, or -1 if it never ran.
	ExitCode int

	// Output is the trimmed combined stdout and stderr.
	Output string

	// Err is set when the command could not be started or waited on.
	Err error
}

// Failed reports whether the command did not run or exited non-zero.
func (r CommandResult) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// String returns the command line.
func (r CommandResult) String() string {
	return strings.Join(r.Args, " ")
}

// LogValue implements slog.LogValuer.
func (r CommandResult) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("cmd", r.String()),
		slog.Int("exit_code", r.ExitCode),
	}
	if r.Output != "" {
		attrs = append(attrs, slog.String("output", r.Output))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// execRunner implements CommandRunner with os/exec.
type execRunner struct{}

// NewCommandRunner returns a CommandRunner that executes real host commands.
func NewCommandRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(name string, args ...string) CommandResult {
	res := CommandResult{Args: append([]string{name}, args...)}

	output, err := exec.Command(name, args...).CombinedOutput()
	res.Output = strings.TrimSpace(string(output))
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
			res.Err = err
		}
	}
	return res
}
