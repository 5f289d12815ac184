package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes data to dir/name atomically using a temp file and rename.
// Readers never observe a partially-written file.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filepath.Join(dir, name), data, perm)
}

// ReplaceFile copies src over dst. The copy is staged next to dst and renamed
// into place, so dst is either the old file or the complete new one.
// Permission bits and access/modification times are carried over from src.
func ReplaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("fsutil: %s is not a regular file", src)
	}

	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(info.Mode().Perm()))
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, in); err != nil {
		return err
	}
	// The umask may have masked bits that the source carries.
	if err := pending.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := copyTimes(src, pending.Name()); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}

// RemoveIfExists removes path and reports whether anything was there.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
