package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "fu_bell", "name": "Fu Bell", "lat": 25.01737, "lng": 121.53915},
		{"name": "Student Activity Center", "lat": 25.019, "lng": 121.54}
	]`), 0o644))

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "fu_bell", locs[0].ID)
	assert.Equal(t, "student-activity-center", locs[1].ID, "missing ids are derived from the name")
}

func TestLoadLocationsRejectsNamelessEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locations.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"lat": 25.0, "lng": 121.5}]`), 0o644))

	_, err := LoadLocations(path)
	assert.Error(t, err)
}

func TestLoadLocationsMissingFile(t *testing.T) {
	_, err := LoadLocations(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
