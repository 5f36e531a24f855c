// Package versioncheck gates a release on the requested version being
// declared in both the project's version record and its autoconf AC_INIT.
package versioncheck

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	rerrors "git.home.luguber.info/inful/prepdist/internal/errors"
)

// Default record locations relative to the source root.
const (
	DefaultVersionFile     = "VERSION.TXT"
	DefaultBuildConfigFile = "configure.ac"
	acInitMarker           = "AC_INIT"
)

// Validator inspects the two version records of a source tree. It only reads.
type Validator struct {
	SourceRoot      string
	VersionFile     string
	BuildConfigFile string
}

// New creates a Validator using the default record names.
func New(sourceRoot string) *Validator {
	return &Validator{
		SourceRoot:      sourceRoot,
		VersionFile:     DefaultVersionFile,
		BuildConfigFile: DefaultBuildConfigFile,
	}
}

// Validate succeeds only if version appears in the version record and in an
// AC_INIT line of the build configuration.
func (v *Validator) Validate(version string) error {
	if strings.TrimSpace(version) == "" {
		return rerrors.VersionMismatch(version, v.VersionFile).WithContext("reason", "empty version")
	}

	found, err := v.scan(v.VersionFile, func(line string) bool {
		return strings.Contains(line, version)
	})
	if err != nil {
		return err
	}
	if !found {
		return rerrors.VersionMismatch(version, v.VersionFile)
	}

	found, err = v.scan(v.BuildConfigFile, func(line string) bool {
		return strings.Contains(line, acInitMarker) && strings.Contains(line, version)
	})
	if err != nil {
		return err
	}
	if !found {
		return rerrors.VersionMismatch(version, v.BuildConfigFile).WithContext("declaration", acInitMarker)
	}
	return nil
}

func (v *Validator) scan(name string, match func(string) bool) (bool, error) {
	path := filepath.Join(v.SourceRoot, name)
	f, err := os.Open(path)
	if err != nil {
		return false, rerrors.VersionRecordUnreadable(name, err).WithContext("path", path)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if match(scanner.Text()) {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, rerrors.VersionRecordUnreadable(name, err).WithContext("path", path)
	}
	return false, nil
}
