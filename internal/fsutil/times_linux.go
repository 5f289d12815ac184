//go:build linux

package fsutil

import (
	"os"

	"golang.org/x/sys/unix"
)

// copyTimes sets the atime and mtime of dst to those of src.
func copyTimes(src, dst string) error {
	var st unix.Stat_t
	if err := unix.Stat(src, &st); err != nil {
		return &os.PathError{Op: "stat", Path: src, Err: err}
	}
	if err := unix.UtimesNano(dst, []unix.Timespec{st.Atim, st.Mtim}); err != nil {
		return &os.PathError{Op: "utimes", Path: dst, Err: err}
	}
	return nil
}
