package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasklist/internal/config"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/models"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.Dir = t.TempDir()
	return cfg
}

func openApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_SeedsSampleData(t *testing.T) {
	a := openApp(t, testConfig(t, config.BackendMemory))

	lists := a.Lists.GetAllLists()
	require.Len(t, lists, 1)
	assert.Equal(t, models.DefaultListName, lists[0].Name)

	tasks := a.Tasks.GetAllTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy groceries", tasks[0].Title)
	assert.Equal(t, "Call mom", tasks[1].Title)
}

func TestNew_WithoutSampleDataStillHasDefaultList(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.SampleData = false
	a := openApp(t, cfg)

	assert.Len(t, a.Lists.GetAllLists(), 1)
	assert.Empty(t, a.Tasks.GetAllTasks())
}

func TestBackendsPersistAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			cfg.SampleData = false

			first, err := New(cfg, nil)
			require.NoError(t, err)
			task, err := first.Tasks.CreateTask(controller.TaskInput{Title: "Renew passport", Flagged: true})
			require.NoError(t, err)
			require.NoError(t, first.Close())

			second := openApp(t, cfg)
			got, ok := second.Tasks.GetTaskByID(task.ID)
			require.True(t, ok)
			assert.Equal(t, "Renew passport", got.Title)
			assert.True(t, got.Flagged)
			assert.Len(t, second.Lists.GetAllLists(), 1)
		})
	}
}

func TestDeleteList_Cascades(t *testing.T) {
	a := openApp(t, testConfig(t, config.BackendMemory))

	var deleted []event.ListDeletedEvent
	a.Bus.Subscribe(event.TypeListDeleted, func(e event.Event) {
		deleted = append(deleted, e.(event.ListDeletedEvent))
	})

	work, err := a.Lists.CreateList(controller.ListInput{Name: "Work"})
	require.NoError(t, err)
	_, err = a.Tasks.CreateTask(controller.TaskInput{Title: "Report", ListID: work.ID})
	require.NoError(t, err)

	ok, err := a.DeleteList(work.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, a.Tasks.GetTasksByListID(work.ID))
	require.Len(t, deleted, 1)
	assert.Equal(t, 1, deleted[0].TasksRemoved)

	_, err = a.DeleteList(models.DefaultListID)
	assert.ErrorIs(t, err, controller.ErrLastList)
}

func TestReset(t *testing.T) {
	a := openApp(t, testConfig(t, config.BackendSQLite))

	require.NoError(t, a.Reset())
	assert.Empty(t, a.Tasks.GetAllTasks())
	lists := a.Lists.GetAllLists()
	require.Len(t, lists, 1)
	assert.Equal(t, models.DefaultListID, lists[0].ID)
}

func TestSettings(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			a := openApp(t, testConfig(t, backend))

			require.NoError(t, a.Settings.SetSetting("last_view", "flagged"))
			value, err := a.Settings.GetSetting("last_view")
			require.NoError(t, err)
			assert.Equal(t, "flagged", value)
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(testConfig(t, "postgres"), nil)
	assert.Error(t, err)
}
