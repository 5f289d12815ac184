package packaging

import (
	"fmt"

	"github.com/omnivector-solutions/slurm-exporter-ops/internal/archive"
)

// ErrArchiveTraversal is matched when Install rejects a tarball entry that
// resolves outside the extraction directory.
var ErrArchiveTraversal = archive.ErrTraversal

// FilesystemError reports a file operation that halted the calling operation:
// an unreadable template, an unwritable target, or a failed unlink.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the formatted error string.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("packaging: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// TemplateError reports a template that could not be rendered, either because
// a placeholder has no value or because the text is malformed.
type TemplateError struct {
	Template string
	// Key is the placeholder without a value. Empty for syntax errors.
	Key    string
	Reason string
}

// Error returns the formatted error string.
func (e *TemplateError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("packaging: template %s: no value for placeholder %q", e.Template, e.Key)
	}
	return fmt.Sprintf("packaging: template %s: %s", e.Template, e.Reason)
}
