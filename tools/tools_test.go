package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloatList(t *testing.T) {
	values, err := ParseFloatList(" 1, -2.5 ,3e2", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 300}, values)

	_, err = ParseFloatList("1,2", 3)
	assert.Error(t, err)

	_, err = ParseFloatList("1,b,3", 3)
	assert.Error(t, err)
}

func TestParseFlagsForCommandCluster_ShorthandsAreExplicit(t *testing.T) {
	flags := ParseFlagsForCommandCluster([]string{"-i", "walls.xyz", "-c", "0.01", "-format", "zst"})

	assert.Equal(t, "walls.xyz", *flags.Input)
	assert.Equal(t, 0.01, *flags.EpsCluster)
	assert.Equal(t, 1e-6, *flags.EpsSame)
	assert.Equal(t, "zst", *flags.Format)

	assert.True(t, flags.Explicit["input"])
	assert.True(t, flags.Explicit["eps-cluster"])
	assert.True(t, flags.Explicit["format"])
	assert.False(t, flags.Explicit["eps-same"])
}

func TestParseFlagsForCommandQuery(t *testing.T) {
	flags := ParseFlagsForCommandQuery([]string{"-input", "in", "-near", "1,2,3", "-g", "0.5"})

	assert.Equal(t, "1,2,3", *flags.Near)
	assert.Equal(t, 0.5, *flags.Range)
	assert.Equal(t, "", *flags.Box)
	assert.True(t, flags.Explicit["range"])
}

func TestGetPointFilesToProcess(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "level1")
	require.NoError(t, os.MkdirAll(nested, 0755))
	for _, name := range []string{
		filepath.Join(root, "b.xyz"),
		filepath.Join(root, "a.CSV"),
		filepath.Join(root, "notes.md"),
		filepath.Join(nested, "c.txt"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("0 0 0\n"), 0644))
	}

	finder := NewStandardFileFinder()

	files, err := finder.GetPointFilesToProcess(&welder.WelderOptions{Input: "single.xyz"})
	require.NoError(t, err)
	assert.Equal(t, []string{"single.xyz"}, files)

	files, err = finder.GetPointFilesToProcess(&welder.WelderOptions{Input: root, FolderProcessing: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.CSV"), filepath.Join(root, "b.xyz")}, files)

	files, err = finder.GetPointFilesToProcess(&welder.WelderOptions{Input: root, FolderProcessing: true, Recursive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.CSV"), filepath.Join(root, "b.xyz"), filepath.Join(nested, "c.txt")}, files)

	_, err = finder.GetPointFilesToProcess(&welder.WelderOptions{Input: filepath.Join(root, "missing"), FolderProcessing: true})
	assert.Error(t, err)
}

func TestLoggerSwitch(t *testing.T) {
	DisableLogger()
	assert.False(t, isEnabled)
	LogOutput("not shown")

	EnableLogger()
	assert.True(t, isEnabled)
}
