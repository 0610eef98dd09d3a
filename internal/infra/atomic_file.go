package infra

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a sibling temp file and renames it over path,
// so readers see either the old content or the new, never a partial write.
func writeFileAtomic(path string, data []byte, dirPerm, filePerm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	// Unique per process so two writers never share a temp file
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, filePerm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
