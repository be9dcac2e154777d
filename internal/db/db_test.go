package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasklist/internal/models"
	"github.com/tgienger/tasklist/internal/store"
)

var _ store.Gateway = (*DB)(nil)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := New(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func TestNew_CreatesDatabaseFile(t *testing.T) {
	_, dir := openTestDB(t)
	assert.FileExists(t, filepath.Join(dir, FileName))
}

func TestEmptyCollections(t *testing.T) {
	db, _ := openTestDB(t)

	tasks, err := db.GetTasks()
	require.NoError(t, err)
	assert.Nil(t, tasks)

	lists, err := db.GetLists()
	require.NoError(t, err)
	assert.Nil(t, lists)
}

func TestSaveAndLoad(t *testing.T) {
	db, dir := openTestDB(t)

	due := models.Timestamp(time.Date(2026, 2, 13, 10, 20, 30, 0, time.UTC))
	tasks := []models.TaskRecord{
		{ID: "t1", Title: "Buy groceries", DueDate: &due, ListID: "default", Priority: "normal"},
		{ID: "t2", Title: "Call mom", ListID: "default", Flagged: true, Priority: "high", Completed: true},
	}
	lists := []models.ListRecord{{ID: "default", Name: "Family", Icon: "home"}}

	require.NoError(t, db.SaveTasks(tasks))
	require.NoError(t, db.SaveLists(lists))

	// a second connection sees the same data
	other, err := New(dir, nil)
	require.NoError(t, err)
	defer other.Close()

	gotTasks, err := other.GetTasks()
	require.NoError(t, err)
	require.Len(t, gotTasks, 2)
	assert.True(t, gotTasks[0].DueDate.Time().Equal(due.Time()))
	gotTasks[0].DueDate = nil
	tasks[0].DueDate = nil
	assert.Equal(t, tasks, gotTasks)

	gotLists, err := other.GetLists()
	require.NoError(t, err)
	assert.Equal(t, lists, gotLists)
}

func TestSaveReplacesCollection(t *testing.T) {
	db, _ := openTestDB(t)

	require.NoError(t, db.SaveLists([]models.ListRecord{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}))
	require.NoError(t, db.SaveLists([]models.ListRecord{{ID: "b", Name: "B"}}))

	lists, err := db.GetLists()
	require.NoError(t, err)
	assert.Equal(t, []models.ListRecord{{ID: "b", Name: "B"}}, lists)
}

func TestMalformedCollectionIsTreatedAsAbsent(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.Exec("INSERT INTO collections (name, data) VALUES ('tasks', 'not json')")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO collections (name, data) VALUES ('lists', '{"id":"x"}')`)
	require.NoError(t, err)

	tasks, err := db.GetTasks()
	require.NoError(t, err)
	assert.Nil(t, tasks)

	lists, err := db.GetLists()
	require.NoError(t, err)
	assert.Nil(t, lists)
}

func TestClearAllKeepsSettings(t *testing.T) {
	db, _ := openTestDB(t)

	require.NoError(t, db.SaveTasks([]models.TaskRecord{{ID: "t1", Title: "x"}}))
	require.NoError(t, db.SaveLists([]models.ListRecord{{ID: "l1", Name: "L"}}))
	require.NoError(t, db.SetSetting("last_filter", "flagged"))

	require.NoError(t, db.ClearAll())

	tasks, err := db.GetTasks()
	require.NoError(t, err)
	assert.Nil(t, tasks)
	lists, err := db.GetLists()
	require.NoError(t, err)
	assert.Nil(t, lists)

	value, err := db.GetSetting("last_filter")
	require.NoError(t, err)
	assert.Equal(t, "flagged", value)
}

func TestSettings(t *testing.T) {
	db, _ := openTestDB(t)

	value, err := db.GetSetting("missing")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, db.SetSetting("last_filter", "today"))
	require.NoError(t, db.SetSetting("last_filter", "all"))

	value, err = db.GetSetting("last_filter")
	require.NoError(t, err)
	assert.Equal(t, "all", value)
}

func TestStoreOverSQLite(t *testing.T) {
	db, dir := openTestDB(t)

	s, err := store.New(db, nil)
	require.NoError(t, err)
	seeded, err := s.InitializeWithSampleDataIfNeeded()
	require.NoError(t, err)
	require.True(t, seeded)

	reopened, err := New(dir, nil)
	require.NoError(t, err)
	defer reopened.Close()

	again, err := store.New(reopened, nil)
	require.NoError(t, err)
	assert.Len(t, again.GetAllTasks(), 2)
	assert.Len(t, again.GetAllLists(), 1)
	for _, task := range s.GetAllTasks() {
		got, ok := again.GetTaskByID(task.ID)
		require.True(t, ok)
		assert.Equal(t, task.Title, got.Title)
		assert.True(t, task.DueDate.Equal(*got.DueDate))
	}
}
