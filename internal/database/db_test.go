package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirkwood/netdox-sub001/internal/config"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "policy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Network: config.NetworkPolicy{
			Exclusions: []string{"junk.example.com"},
			Roles: map[string]config.Role{
				"webserver": {
					Domains: []string{"app.example.com", "www.example.com"},
					Attrs:   map[string]string{"tier": "frontend"},
				},
			},
		},
		Locations: config.LocationsConfig{
			"dc-1": {"192.168.0.0/24", "192.168.1.0/24"},
		},
		NAT: map[string]string{"192.168.0.10": "100.64.0.10"},
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Health())

	version, err := db.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version, "fresh database starts at version 0")
}

func TestImportExportRoundTrip(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ImportFromConfig(testConfig()))

	policy, err := db.ExportPolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{"junk.example.com"}, policy.Exclusions)
	require.Contains(t, policy.Roles, "webserver")
	assert.Equal(t, []string{"app.example.com", "www.example.com"}, policy.Roles["webserver"].Domains)
	assert.Equal(t, "frontend", policy.Roles["webserver"].Attrs["tier"])

	locations, err := db.ExportLocations()
	require.NoError(t, err)
	assert.Equal(t, []string{"192.168.0.0/24", "192.168.1.0/24"}, locations["dc-1"])

	nat, err := db.ExportNAT()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"192.168.0.10": "100.64.0.10"}, nat)
}

func TestImportReplacesPreviousPolicy(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.ImportFromConfig(testConfig()))

	replacement := &config.Config{
		Network: config.NetworkPolicy{
			Exclusions: []string{"other.example.com"},
		},
	}
	require.NoError(t, db.ImportFromConfig(replacement))

	policy, err := db.ExportPolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{"other.example.com"}, policy.Exclusions)
	assert.Empty(t, policy.Roles)

	locations, err := db.ExportLocations()
	require.NoError(t, err)
	assert.Empty(t, locations)
}

func TestVersionBumpsOnImport(t *testing.T) {
	db := openTestDB(t)

	before, err := db.GetVersion()
	require.NoError(t, err)

	require.NoError(t, db.ImportFromConfig(testConfig()))

	after, err := db.GetVersion()
	require.NoError(t, err)
	assert.Greater(t, after, before)
}
