package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidProfile(t *testing.T) {
	path := writeProfile(t, `{
		"contact": {
			"first_name": "Ada",
			"last_name": "Tran",
			"email": "ada@example.com",
			"phone": "555-0100"
		},
		"education": {
			"school": "Georgia Tech",
			"degree": "BS"
		},
		"preferences": {"salary": "120000"}
	}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Tran", p.FullName())
	assert.Equal(t, "120000", p.Preferences["salary"])
}

func TestLoadReportsAllMissingFields(t *testing.T) {
	path := writeProfile(t, `{
		"contact": {"first_name": "Ada", "email": "not-an-email"},
		"education": {}
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LastName")
	assert.Contains(t, err.Error(), "Email")
	assert.Contains(t, err.Error(), "School")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeProfile(t, `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}
