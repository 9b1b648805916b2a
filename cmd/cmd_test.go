package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rubiojr/seekr/pkg/log"
	"github.com/rubiojr/seekr/pkg/search"
	"github.com/rubiojr/seekr/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dump = `[
  {"id": 1, "name": "standup notes", "content": "work sync", "tags": ["work"], "updated_at": "2024-05-01T09:00:00Z"},
  {"id": 2, "name": "deploy checklist", "content": "work release", "tags": ["work", "ops"], "use_count": 7, "last_used": "2024-05-06T09:00:00Z", "updated_at": "2024-05-02T09:00:00Z"},
  {"id": 3, "type": "project", "name": "Roadmap", "content": "work planning", "tags": ["work"], "projects": ["Roadmap"], "updated_at": "2024-05-03T09:00:00Z"},
  {"id": 4, "name": "groceries", "content": "after work shopping", "tags": ["home"], "updated_at": "2024-05-04T09:00:00Z"},
  {"id": 5, "name": "plumber", "content": "call after work", "tags": ["home"], "is_favorite": true, "updated_at": "2024-05-05T09:00:00Z"}
]`

// setupEnv points every XDG directory at a temp dir and writes a config
// whose storage lives there too.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	configPath := filepath.Join(dir, "config", "seekr", "config.toml")
	out := run(t, configPath, "init")
	assert.Contains(t, out, "Configuration initialized at "+configPath)
	return configPath
}

func run(t *testing.T, configPath string, args ...string) string {
	t.Helper()
	out, err := runErr(configPath, args...)
	require.NoError(t, err, "seekr %v", args)
	return out
}

func runErr(configPath string, args ...string) (string, error) {
	var buf bytes.Buffer
	app := RootCommand(configPath)
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(context.Background(), append([]string{"seekr"}, args...))
	return buf.String(), err
}

func importDump(t *testing.T, configPath string) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(file, []byte(dump), 0o644))
	out := run(t, configPath, "import", file)
	assert.Contains(t, out, "Imported 5 results")
}

func TestInitWritesTemplate(t *testing.T) {
	configPath := setupEnv(t)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `search_debounce = "300ms"`)
	assert.Contains(t, string(data), filepath.Join(os.Getenv("XDG_DATA_HOME"), "seekr"))
}

func TestSearchCommand(t *testing.T) {
	configPath := setupEnv(t)
	importDump(t, configPath)

	out := run(t, configPath, "search", "work -release +sync")
	assert.Contains(t, out, "standup notes")
	assert.NotContains(t, out, "deploy checklist")

	out = run(t, configPath, "search", "--tag", "home", "work")
	assert.Contains(t, out, "plumber")
	assert.Contains(t, out, "groceries")
	assert.NotContains(t, out, "Roadmap")
	assert.Contains(t, out, "Filters: tags home")

	out = run(t, configPath, "search", "zzzunmatched")
	assert.Contains(t, out, "No results found")
}

func TestSearchCommandJSON(t *testing.T) {
	configPath := setupEnv(t)
	importDump(t, configPath)

	out := run(t, configPath, "search", "--json", "--exclude", "projects", "--limit", "2", "--page", "2", "work")

	var res search.Results
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Results, 1, "the project on page 2 is filtered out")
	assert.Equal(t, int64(2), res.Results[0].ID)
	assert.Equal(t, "Page 2 of 3 (3-4 of 5)", res.PageLabel)
}

func TestSearchCommandBadFlags(t *testing.T) {
	configPath := setupEnv(t)

	_, err := runErr(configPath, "search", "--exclude", "planets", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planets")

	_, err = runErr(configPath, "search", "--view", "popular")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popular")
}

func TestListCommand(t *testing.T) {
	configPath := setupEnv(t)
	importDump(t, configPath)

	out := run(t, configPath, "list", "most-used")
	assert.Contains(t, out, "Most Used")
	assert.Contains(t, out, "deploy checklist")
	assert.NotContains(t, out, "plumber")

	out = run(t, configPath, "list", "--limit", "2")
	assert.Contains(t, out, "Recent")
	assert.Contains(t, out, "plumber")
	assert.Contains(t, out, "groceries")
	assert.NotContains(t, out, "Roadmap")
}

func TestTagsAndStatsCommands(t *testing.T) {
	configPath := setupEnv(t)

	out := run(t, configPath, "stats")
	assert.Contains(t, out, "Nothing imported yet")

	importDump(t, configPath)

	out = run(t, configPath, "tags", "work")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "ops")

	out = run(t, configPath, "stats")
	assert.Contains(t, out, "Total results: 5")
	assert.Contains(t, out, "Unique tags: 3")
	assert.Contains(t, out, "(20.0%)")
}

func TestMigrateAndOptimizeCommands(t *testing.T) {
	configPath := setupEnv(t)

	out := run(t, configPath, "migrate", "--status")
	assert.Contains(t, out, "Database does not exist")

	importDump(t, configPath)

	out = run(t, configPath, "migrate", "--status")
	assert.Contains(t, out, "Pending migrations: 0")
	assert.Contains(t, out, "database is up to date")

	out = run(t, configPath, "migrate")
	assert.Contains(t, out, "Applied 0 migrations")

	out = run(t, configPath, "optimize", "check")
	assert.Contains(t, out, "Database is healthy")

	out = run(t, configPath, "optimize", "all")
	assert.Contains(t, out, "All optimization operations completed successfully")

	out = run(t, configPath, "optimize", "vacuum")
	assert.Contains(t, out, "VACUUM completed")
}

func TestImportRequiresFiles(t *testing.T) {
	configPath := setupEnv(t)
	_, err := runErr(configPath, "import")
	require.Error(t, err)

	_, err = runErr(configPath, "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestVersionCommand(t *testing.T) {
	out := run(t, filepath.Join(t.TempDir(), "config.toml"), "version")
	assert.Equal(t, version.BuildVersion()+"\nSchema: 002_indexes\n", out)
}

func TestDebugForFlag(t *testing.T) {
	t.Cleanup(func() {
		log.DisableDebugFor("storage")
		log.DisableDebugFor("search")
	})

	run(t, filepath.Join(t.TempDir(), "config.toml"), "--debug-for", "storage, search", "version")
	assert.True(t, log.DebugEnabledFor("storage"))
	assert.True(t, log.DebugEnabledFor("search"))
	assert.False(t, log.DebugEnabledFor("importer"))
}
