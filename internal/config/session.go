package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const sessionFileName = "session"

// ErrNoSession is returned by LoadSession when no login has been stored.
var ErrNoSession = errors.New("not logged in")

// SessionPath returns the file holding the service session cookie.
func SessionPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// SaveSession stores the session cookie value with 0600 permissions.
func SaveSession(value string) error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err = os.WriteFile(path, []byte(value+"\n"), 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// LoadSession returns the stored session cookie value.
func LoadSession() (string, error) {
	path, err := SessionPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNoSession
	}
	return value, nil
}

// ClearSession removes the stored session. A missing file is not an error.
func ClearSession() error {
	path, err := SessionPath()
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
