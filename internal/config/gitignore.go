package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// localOnly lists the entries of a .cardcollector directory that belong to
// one user: the login session, the lookup cache, secrets and logs.
//
//nolint:gochecknoglobals // Fixed pattern list.
var localOnly = []string{sessionFileName, "cache/", ".env", "*.log"}

// GitignoreContent returns the .gitignore written by EnsureGitignore.
// config.yaml is not listed so a project can share its settings.
func GitignoreContent() string {
	var b strings.Builder
	b.WriteString("# Written by collector; config.yaml stays tracked.\n")
	for _, p := range localOnly {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnsureGitignore writes dir/.gitignore, creating dir as needed. It reports
// false when the file already exists; an existing file is left untouched.
func EnsureGitignore(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, ".gitignore")
	//nolint:gosec // Checked into the repository, so readable by everyone.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, fs.ErrExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("creating %s: %w", path, err)
	}

	_, err = f.WriteString(GitignoreContent())
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
