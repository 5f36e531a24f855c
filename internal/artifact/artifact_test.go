package artifact

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestNames(t *testing.T) {
	set := Names("brickportability", "1.11")

	assert.Equal(t, "brickportability-1.11", set.DistDir)
	assert.Equal(t, "brickportability-1.11.tar.gz", set.DistArchive)
	assert.Equal(t, "brickportability-1.11_htmlDoc.tgz", set.DocArchive)
	assert.Equal(t, "brickportability-1.11_manual.pdf", set.Manual)
}

func TestNamesIsPure(t *testing.T) {
	assert.Equal(t, Names("brickportability", "2.0"), Names("brickportability", "2.0"))
	assert.NotEqual(t, Names("brickportability", "2.0"), Names("brickportability", "2.1"))
}

func TestRevisionTag(t *testing.T) {
	tests := map[string]string{
		"1.11":   "version1_11",
		"2.0.3":  "version2_0_3",
		"3":      "version3",
		"1.0rc1": "version1_0rc1",
	}
	for in, want := range tests {
		assert.Equal(t, want, RevisionTag(in), in)
	}
}

func TestBlake3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brickportability-1.11.tar.gz")
	data := []byte("not really a tarball")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := Blake3(path)
	require.NoError(t, err)

	sum := blake3.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestBlake3MissingFile(t *testing.T) {
	_, err := Blake3(filepath.Join(t.TempDir(), "absent.tgz"))
	require.Error(t, err)
}
