package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHashIsStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("fake pdf bytes"), 0o644))

	first, err := fileHash(path)
	require.NoError(t, err)
	second, err := fileHash(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)

	require.NoError(t, os.WriteFile(path, []byte("different bytes"), 0o644))
	changed, err := fileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}
