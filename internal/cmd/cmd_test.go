package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh command tree with args and returns captured output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func setupEnv(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("TASKLIST_STORAGE_BACKEND", backend)
	t.Setenv("TASKLIST_STORAGE_DIR", filepath.Join(dir, "data"))
	t.Setenv("TASKLIST_SAMPLE_DATA", "false")
	return dir
}

func TestRootCommand(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "tasklist", root.Use)

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"add", "ls", "done", "lists", "reset", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestVersion(t *testing.T) {
	setupEnv(t, "memory")
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tasklist dev")
}

func TestAddAndList(t *testing.T) {
	setupEnv(t, "file")

	out, err := executeCommand(t, "add", "Buy", "milk", "--flag", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Added task-")

	out, err = executeCommand(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ]! Buy milk  (Family, high)")

	out, err = executeCommand(t, "ls", "flagged")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")

	out, err = executeCommand(t, "ls", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks")

	out, err = executeCommand(t, "ls", "family")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
}

func TestAdd_Validation(t *testing.T) {
	setupEnv(t, "memory")

	_, err := executeCommand(t, "add", "x", "--due", "soon")
	assert.Error(t, err)

	_, err = executeCommand(t, "add", "x", "--priority", "urgent")
	assert.Error(t, err)

	_, err = executeCommand(t, "add", "x", "--list", "Nowhere")
	assert.ErrorContains(t, err, "no list named")
}

func TestDone(t *testing.T) {
	setupEnv(t, "sqlite")

	out, err := executeCommand(t, "add", "Water plants")
	require.NoError(t, err)
	id := strings.TrimSpace(strings.TrimPrefix(out, "Added "))

	out, err = executeCommand(t, "done", id[:len("task-")+8])
	require.NoError(t, err)
	assert.Equal(t, "Water plants: done\n", out)

	out, err = executeCommand(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "[x]  Water plants")

	_, err = executeCommand(t, "done", "task-nope")
	assert.Error(t, err)
}

func TestListsCommands(t *testing.T) {
	setupEnv(t, "file")

	_, err := executeCommand(t, "lists", "new", "Work")
	require.NoError(t, err)
	_, err = executeCommand(t, "lists", "new", "work")
	assert.Error(t, err, "names are unique ignoring case")

	_, err = executeCommand(t, "add", "Report", "--list", "work")
	require.NoError(t, err)

	out, err := executeCommand(t, "lists")
	require.NoError(t, err)
	assert.Contains(t, out, "Family")
	assert.Contains(t, out, "Work")

	_, err = executeCommand(t, "lists", "rename", "Work", "Office")
	require.NoError(t, err)

	out, err = executeCommand(t, "lists", "rm", "office")
	require.NoError(t, err)
	assert.Equal(t, "Deleted Office and 1 task(s)\n", out)

	_, err = executeCommand(t, "lists", "rm", "Family")
	assert.ErrorContains(t, err, "last list")
}

func TestReset(t *testing.T) {
	setupEnv(t, "sqlite")

	_, err := executeCommand(t, "add", "Temporary")
	require.NoError(t, err)

	_, err = executeCommand(t, "reset")
	assert.Error(t, err, "reset needs confirmation")

	_, err = executeCommand(t, "reset", "--yes")
	require.NoError(t, err)

	out, err := executeCommand(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks")
}

func TestExplicitConfigFile(t *testing.T) {
	dir := setupEnv(t, "memory")
	os.Unsetenv("TASKLIST_STORAGE_BACKEND")

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: nosuch\n"), 0o644))

	_, err := executeCommand(t, "--config", path, "ls")
	assert.ErrorContains(t, err, "storage.backend")

	_, err = executeCommand(t, "--config", filepath.Join(dir, "missing.yaml"), "ls")
	assert.ErrorContains(t, err, "failed to read config")
}
