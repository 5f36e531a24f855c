// Package artifact derives the canonical release file names from a version
// and fingerprints the produced files.
package artifact

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Set holds the output names for one release. All archives are written into
// the source root.
type Set struct {
	// DistDir is the top-level directory inside the distribution archive.
	DistDir     string
	DistArchive string
	DocArchive  string
	Manual      string
}

// Names maps a project and version to its artifact names. It performs no I/O;
// an empty version is rejected upstream by the version gate.
func Names(project, version string) Set {
	base := fmt.Sprintf("%s-%s", project, version)
	return Set{
		DistDir:     base,
		DistArchive: base + ".tar.gz",
		DocArchive:  base + "_htmlDoc.tgz",
		Manual:      base + "_manual.pdf",
	}
}

// RevisionTag is the version-control tag name for a version ("1.11" -> "version1_11").
// Nothing tags the tree; the value is only reported.
func RevisionTag(version string) string {
	return "version" + strings.ReplaceAll(version, ".", "_")
}

// Blake3 returns the hex BLAKE3-256 digest of a file.
func Blake3(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash artifact: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
