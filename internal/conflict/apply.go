package conflict

import (
	"fmt"
	"os"
	"path/filepath"
)

// Apply regenerates the file and rewrites it on disk. Nothing is written
// unless regeneration succeeds; the write itself goes through a temp file
// in the same directory so a crash never leaves a half-written file.
func (f *File) Apply() error {
	data, err := f.Regenerate()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".resolve-*")
	if err != nil {
		return fmt.Errorf("apply %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("apply %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("apply %s: %w", f.Path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("apply %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("apply %s: %w", f.Path, err)
	}
	return nil
}

// ParseFile reads and parses a conflict-marked file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}
