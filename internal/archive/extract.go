// Package archive extracts tarballs into a directory, refusing any entry that
// would land outside of it.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrTraversal is matched by every *TraversalError.
var ErrTraversal = errors.New("archive: attempted path traversal in tar file")

// TraversalError reports an archive entry whose destination, or link target,
// resolves outside the extraction root.
type TraversalError struct {
	Entry  string
	Target string
}

// Error returns the formatted error string.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("archive: entry %q resolves to %q outside extraction directory", e.Entry, e.Target)
}

// Is supports errors.Is matching against ErrTraversal.
func (e *TraversalError) Is(target error) bool {
	return target == ErrTraversal
}

// Extract unpacks the tar archive at src into dest, which must already exist.
// Compressed archives are detected by their magic bytes.
//
// Every entry is checked before it is written. The first entry that escapes
// dest aborts extraction with a *TraversalError; entries written before it are
// left in dest for the caller to discard.
func Extract(src, dest string, logger *slog.Logger) error {
	root, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("archive: resolve %s: %w", dest, err)
	}
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return fmt.Errorf("archive: resolve %s: %w", dest, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("archive: open %s: %w", src, err)
	}
	defer f.Close()

	r, err := decompress(f)
	if err != nil {
		return fmt.Errorf("archive: %s: %w", src, err)
	}
	defer r.Close()

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		// Only returned when GODEBUG=tarinsecurepath=0; the header is still valid.
		if errors.Is(err, tar.ErrInsecurePath) && hdr != nil {
			return &TraversalError{Entry: hdr.Name, Target: hdr.Name}
		}
		if err != nil {
			return fmt.Errorf("archive: read %s: %w", src, err)
		}
		if err := extractEntry(root, hdr, tr, logger); err != nil {
			return err
		}
	}
}

func extractEntry(root string, hdr *tar.Header, r io.Reader, logger *slog.Logger) error {
	target, err := within(root, hdr.Name)
	if err != nil {
		return err
	}

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := noSymlinks(root, hdr.Name, target); err != nil {
			return err
		}
		if err := os.MkdirAll(target, dirPerm(hdr)); err != nil {
			return fmt.Errorf("archive: create directory %s: %w", target, err)
		}
		return nil

	case tar.TypeReg:
		if err := noSymlinks(root, hdr.Name, filepath.Dir(target)); err != nil {
			return err
		}
		return writeFile(target, hdr, r)

	case tar.TypeSymlink:
		if err := noSymlinks(root, hdr.Name, filepath.Dir(target)); err != nil {
			return err
		}
		if err := resolveLink(root, filepath.Dir(target), hdr); err != nil {
			return err
		}
		if err := prepare(target); err != nil {
			return err
		}
		if err := os.Symlink(hdr.Linkname, target); err != nil {
			return fmt.Errorf("archive: symlink %s: %w", target, err)
		}
		return nil

	case tar.TypeLink:
		linkTarget, err := within(root, hdr.Linkname)
		if err != nil {
			return &TraversalError{Entry: hdr.Name, Target: hdr.Linkname}
		}
		if err := noSymlinks(root, hdr.Name, filepath.Dir(target)); err != nil {
			return err
		}
		// Covers the source itself: a hardlinked symlink would resolve
		// relative to its new directory.
		if err := noSymlinks(root, hdr.Name, linkTarget); err != nil {
			return err
		}
		if err := prepare(target); err != nil {
			return err
		}
		if err := os.Link(linkTarget, target); err != nil {
			return fmt.Errorf("archive: hardlink %s: %w", target, err)
		}
		return nil

	default:
		logger.Debug("skipping archive entry", "name", hdr.Name, "type", string(hdr.Typeflag))
		return nil
	}
}

// within joins name onto root and fails if the result is not inside root.
// Absolute names are rejected outright rather than re-rooted.
func within(root, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", &TraversalError{Entry: name, Target: filepath.Clean(name)}
	}
	target := filepath.Join(root, name)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &TraversalError{Entry: name, Target: target}
	}
	return target, nil
}

// noSymlinks fails if any existing component of path below root, path
// included, is a symlink. Extraction never writes or links through a
// symlink, so the lexical check in within is also the real location.
func noSymlinks(root, entry, path string) error {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return &TraversalError{Entry: entry, Target: path}
	}
	if rel == "." {
		return nil
	}
	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: stat %s: %w", cur, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return &TraversalError{Entry: entry, Target: cur}
		}
	}
	return nil
}

// resolveLink walks a symlink's target one component at a time from dir, the
// way the kernel will, and fails if it leaves root or steps through an
// existing symlink before its last component. Cleaning the whole path first
// would hide "link/.." behind its lexical result.
func resolveLink(root, dir string, hdr *tar.Header) error {
	if filepath.IsAbs(hdr.Linkname) {
		return &TraversalError{Entry: hdr.Name, Target: hdr.Linkname}
	}
	parts := strings.Split(filepath.ToSlash(hdr.Linkname), "/")
	cur := dir
	for i, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if cur == root {
				return &TraversalError{Entry: hdr.Name, Target: hdr.Linkname}
			}
			cur = filepath.Dir(cur)
			continue
		}
		cur = filepath.Join(cur, part)
		if i == len(parts)-1 {
			break
		}
		info, err := os.Lstat(cur)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("archive: stat %s: %w", cur, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return &TraversalError{Entry: hdr.Name, Target: cur}
		}
	}
	return nil
}

// prepare makes the parent of target and clears whatever is at target, so
// a later entry replaces an earlier one without following it.
func prepare(target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("archive: create directory %s: %w", filepath.Dir(target), err)
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("archive: replace %s: %w", target, err)
	}
	return nil
}

func writeFile(target string, hdr *tar.Header, r io.Reader) error {
	if err := prepare(target); err != nil {
		return err
	}
	perm := hdr.FileInfo().Mode().Perm()
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("archive: write %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("archive: close %s: %w", target, err)
	}
	if err := os.Chmod(target, perm); err != nil {
		return fmt.Errorf("archive: chmod %s: %w", target, err)
	}
	if !hdr.ModTime.IsZero() {
		if err := os.Chtimes(target, hdr.ModTime, hdr.ModTime); err != nil {
			return fmt.Errorf("archive: set times %s: %w", target, err)
		}
	}
	return nil
}

func dirPerm(hdr *tar.Header) os.FileMode {
	perm := hdr.FileInfo().Mode().Perm()
	if perm == 0 {
		return 0o755
	}
	return perm | 0o700
}
