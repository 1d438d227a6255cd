package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBase is returned when a path resolves outside its base directory.
var ErrOutsideBase = errors.New("path is outside base directory")

// ResolveContained joins a slash-separated relative path onto baseDir and
// returns the absolute result. Absolute inputs and inputs that climb out of
// baseDir are rejected.
func ResolveContained(baseDir, rel string) (string, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", errors.New("failed to resolve base directory")
	}
	native := filepath.FromSlash(rel)
	if filepath.IsAbs(native) {
		return "", ErrOutsideBase
	}
	full := filepath.Join(baseDirAbs, native)
	if err := checkContained(baseDirAbs, full); err != nil {
		return "", err
	}
	return full, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
// This prevents path traversal attacks by ensuring the file path resolves
// to a location within the specified base directory.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.New("failed to resolve base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}
	if err := checkContained(baseDirAbs, filePathAbs); err != nil {
		return nil, err
	}

	// #nosec G304 -- filePathAbs has been verified to be contained within baseDirAbs
	return os.ReadFile(filePathAbs)
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644. The write
// truncates in place; there is no temp file and no rename.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return os.WriteFile(path, data, mode)
}

func checkContained(baseAbs, pathAbs string) error {
	rel, err := filepath.Rel(baseAbs, pathAbs)
	if err != nil {
		return errors.New("failed to compute relative path")
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrOutsideBase
	}
	return nil
}
