package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

var namespacePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// FileKV keeps each namespace in its own file under Dir.
type FileKV struct {
	Dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileKV{Dir: dir}, nil
}

func (f *FileKV) path(namespace string) (string, error) {
	if !namespacePattern.MatchString(namespace) {
		return "", fmt.Errorf("invalid cache namespace %q", namespace)
	}
	return filepath.Join(f.Dir, namespace+".json"), nil
}

func (f *FileKV) Read(namespace string) (string, bool, error) {
	path, err := f.path(namespace)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read cache file: %w", err)
	}
	return string(data), true, nil
}

// Write replaces the namespace atomically (temp file + rename).
func (f *FileKV) Write(namespace, value string) error {
	path, err := f.path(namespace)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.Dir, namespace+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set cache file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
