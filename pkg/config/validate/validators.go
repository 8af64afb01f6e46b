package validate

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "discovery.report_path" or "client.port"
	Message string // e.g., "must not be empty"
	Hint    string // e.g., "allowed values: http, https"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateDirWritable validates that a directory exists and is writable.
func ValidateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}

	// Try to write a test file
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)

	return nil
}

// ValidateParentDir checks that the directory holding path is a directory.
// A parent that does not exist yet is accepted; it is created at runtime.
func ValidateParentDir(path string) error {
	_, err := existingParent(path)
	return err
}

// ValidateParentWritable is ValidateParentDir plus a write check when the
// parent already exists.
func ValidateParentWritable(path string) error {
	parent, err := existingParent(path)
	if err != nil || parent == "" {
		return err
	}
	return ValidateDirWritable(parent)
}

// existingParent returns the parent of path, or "" when there is nothing
// on disk to check yet.
func existingParent(path string) (string, error) {
	parent := filepath.Dir(path)
	if parent == "" || parent == "." {
		return "", nil
	}

	info, err := os.Stat(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("parent directory not accessible: %v", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("parent path is not a directory")
	}
	return parent, nil
}

// ValidatePort validates that a port number is in the valid range.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535; got %d", port)
	}
	return nil
}
