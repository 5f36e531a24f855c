package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/prepdist/internal/stages"
	"git.home.luguber.info/inful/prepdist/internal/versioncheck"
)

func codes(defs []stages.StageDef) map[stages.StageName]int {
	out := make(map[stages.StageName]int, len(defs))
	for _, d := range defs {
		out[d.Name] = d.Code
	}
	return out
}

func TestTableCodes(t *testing.T) {
	defs := Table(versioncheck.New(t.TempDir()), true)
	require.NoError(t, stages.ValidateTable(defs))

	assert.Equal(t, map[stages.StageName]int{
		stages.StageVerifyVersion:   1,
		stages.StageMaintainerClean: 0,
		stages.StageBootstrap:       2,
		stages.StageConfigure:       3,
		stages.StageDistcheck:       4,
		stages.StageExtract:         5,
		stages.StageReconfigure:     6,
		stages.StageAPIDoc:          7,
		stages.StagePackageDocs:     8,
		stages.StageBuildManual:     9,
		stages.StageRelocateManual:  10,
		stages.StageCleanup:         11,
	}, codes(defs))
	assert.True(t, defs[1].TolerateFailure)
}

func TestTableWithoutManual(t *testing.T) {
	defs := Table(versioncheck.New(t.TempDir()), false)
	require.NoError(t, stages.ValidateTable(defs))
	require.Len(t, defs, 10)

	c := codes(defs)
	assert.NotContains(t, c, stages.StageBuildManual)
	assert.NotContains(t, c, stages.StageRelocateManual)
	assert.Equal(t, CodeCleanup, c[stages.StageCleanup])
	assert.Equal(t, stages.StageCleanup, defs[len(defs)-1].Name)
}
