package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/api"
	"taskboard/pkg/task"
)

// setupServer points the package-level --api flag at an in-memory API.
func setupServer(t *testing.T) *task.MemStore {
	t.Helper()
	store := task.NewMemStore()
	ts := httptest.NewServer(api.New(store))
	t.Cleanup(ts.Close)

	oldAPI, oldJSON := apiURL, jsonOut
	apiURL, jsonOut = ts.URL, false
	t.Cleanup(func() { apiURL, jsonOut = oldAPI, oldJSON })
	return store
}

func runCmd(t *testing.T, run func(*cobra.Command, []string) error, args []string, stdin string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(stdin))
	err := run(cmd, args)
	return out.String(), err
}

func TestListEmpty(t *testing.T) {
	setupServer(t)

	out, err := runCmd(t, listTasks, nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, "No hay tareas")
}

func TestAddAndList(t *testing.T) {
	setupServer(t)
	addTitle, addDescription = "Buy milk", "2 litres"
	t.Cleanup(func() { addTitle, addDescription = "", "" })

	out, err := runCmd(t, addTask, nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Tarea creada")

	addTitle, addDescription = "Walk dog", ""
	_, err = runCmd(t, addTask, nil, "")
	require.NoError(t, err)

	out, err = runCmd(t, listTasks, nil, "")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Walk dog"), strings.Index(out, "Buy milk"))
	assert.Contains(t, out, "Total: 2  Completadas: 0  Pendientes: 2")
}

func TestAddBlankTitle(t *testing.T) {
	store := setupServer(t)
	addTitle = "   "
	t.Cleanup(func() { addTitle = "" })

	_, err := runCmd(t, addTask, nil, "")
	require.Error(t, err)

	list, _ := store.List(context.Background())
	assert.Empty(t, list)
}

func TestDoneUndoToggle(t *testing.T) {
	store := setupServer(t)
	tk, err := store.Create(context.Background(), "Buy milk", "")
	require.NoError(t, err)

	out, err := runCmd(t, doneCmd.RunE, []string{tk.ID}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Buy milk")

	_, err = runCmd(t, undoCmd.RunE, []string{tk.ID}, "")
	require.NoError(t, err)
	got, _ := store.Get(context.Background(), tk.ID)
	assert.False(t, got.Completed)

	_, err = runCmd(t, toggleTask, []string{tk.ID}, "")
	require.NoError(t, err)
	got, _ = store.Get(context.Background(), tk.ID)
	assert.True(t, got.Completed)
}

func TestEditTitle(t *testing.T) {
	store := setupServer(t)
	tk, err := store.Create(context.Background(), "Old", "keep me")
	require.NoError(t, err)

	require.NoError(t, editCmd.Flags().Set("title", "New"))
	t.Cleanup(func() {
		editTitle = ""
		editCmd.Flags().Lookup("title").Changed = false
	})

	err = editTask(editCmd, []string{tk.ID})
	require.NoError(t, err)

	got, _ := store.Get(context.Background(), tk.ID)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep me", got.Description)
}

func TestEditNothing(t *testing.T) {
	setupServer(t)
	_, err := runCmd(t, editTask, []string{"whatever"}, "")
	assert.Error(t, err)
}

func TestRemoveConfirm(t *testing.T) {
	store := setupServer(t)
	tk, err := store.Create(context.Background(), "A", "")
	require.NoError(t, err)

	out, err := runCmd(t, removeTask, []string{tk.ID}, "n\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelado.")
	_, err = store.Get(context.Background(), tk.ID)
	require.NoError(t, err)

	out, err = runCmd(t, removeTask, []string{tk.ID}, "y\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Tarea eliminada")
	_, err = store.Get(context.Background(), tk.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	setupServer(t)
	_, err := runCmd(t, getTask, []string{"00000000-0000-7000-8000-000000000000"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tarea no encontrada")
}

func TestStatsJSON(t *testing.T) {
	store := setupServer(t)
	jsonOut = true
	_, err := store.Create(context.Background(), "A", "")
	require.NoError(t, err)

	out, err := runCmd(t, showStats, nil, "")
	require.NoError(t, err)
	var counts task.Counts
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, task.Counts{Total: 1, Pending: 1}, counts)
}
