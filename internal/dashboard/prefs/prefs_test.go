package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	want := Prefs{APIURL: "http://board:9000", PollSeconds: 5, Email: "ops@example.com"}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("email = \"ops\"\npoll_seconds = 0\n"), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ops", got.Email)
	assert.Equal(t, defaultAPIURL, got.APIURL)
	assert.Equal(t, defaultPollSeconds, got.PollSeconds)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_url = [oops"), 0o600))

	got, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Defaults(), got)
}
