//go:build !linux

package fsutil

import "os"

// copyTimes carries the modification time only; access time is not portable.
func copyTimes(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
