package workspace

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/prepdist/internal/logfields"
)

// Manager handles the extraction workspace: stagingRoot/<distDir>.
type Manager struct {
	stagingRoot string
	distDir     string
}

// NewManager creates a manager for the given staging root and distribution directory name.
func NewManager(stagingRoot, distDir string) *Manager {
	return &Manager{stagingRoot: stagingRoot, distDir: distDir}
}

// StagingRoot returns the directory the archive is extracted into.
func (m *Manager) StagingRoot() string {
	return m.stagingRoot
}

// GetPath returns the path of the extracted distribution.
func (m *Manager) GetPath() string {
	return filepath.Join(m.stagingRoot, m.distDir)
}

// EnsureStagingRoot checks that the staging root exists. It is never created
// here so that a successful run leaves it exactly as found.
func (m *Manager) EnsureStagingRoot() error {
	stat, err := os.Stat(m.stagingRoot)
	if err != nil {
		return fmt.Errorf("staging root unavailable: %w", err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("staging root %s is not a directory", m.stagingRoot)
	}
	return nil
}

// Exists reports whether the extracted distribution is on disk.
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.GetPath())
	return err == nil
}

// WarnIfStale logs when a previous run left its extraction behind.
func (m *Manager) WarnIfStale() {
	if m.Exists() {
		slog.Warn("Extraction workspace left by an earlier run; extracting over it", logfields.Path(m.GetPath()))
	}
}

// Subdir returns a path inside the extracted distribution.
func (m *Manager) Subdir(elem ...string) string {
	return filepath.Join(append([]string{m.GetPath()}, elem...)...)
}

// Cleanup removes the extracted distribution.
func (m *Manager) Cleanup() error {
	if m.distDir == "" {
		return errors.New("workspace has no distribution directory")
	}
	if err := os.RemoveAll(m.GetPath()); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Info("Cleaned up workspace", logfields.Path(m.GetPath()))
	return nil
}

// MoveFile relocates src to dst, falling back to copy+remove across devices.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if _, statErr := os.Stat(src); statErr != nil {
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return os.Remove(src)
}

// copyFile copies a single file from src to dst
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
