package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasklist/internal/models"
)

// failingGateway accepts reads and rejects every write
type failingGateway struct {
	*MemoryGateway
}

var errQuota = errors.New("quota exceeded")

func (g failingGateway) SaveTasks([]models.TaskRecord) error { return errQuota }
func (g failingGateway) SaveLists([]models.ListRecord) error { return errQuota }

// brokenGateway fails reads
type brokenGateway struct {
	*MemoryGateway
}

func (g brokenGateway) GetTasks() ([]models.TaskRecord, error) { return nil, errors.New("disk error") }

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func newTestStore(t *testing.T, opts ...Option) (*DataStore, *MemoryGateway) {
	t.Helper()
	gw := NewMemoryGateway()
	s, err := New(gw, nil, opts...)
	require.NoError(t, err)
	return s, gw
}

func TestNew_EmptyGateway(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.GetAllTasks())
	assert.Empty(t, s.GetAllLists())
	assert.Equal(t, 0, s.ListCount())
}

func TestNew_LoadsExistingRecords(t *testing.T) {
	gw := NewMemoryGateway()
	require.NoError(t, gw.SaveLists([]models.ListRecord{{ID: "work", Name: "Work"}}))
	require.NoError(t, gw.SaveTasks([]models.TaskRecord{{ID: "t1", Title: "Report", ListID: "work"}}))

	s, err := New(gw, nil)
	require.NoError(t, err)

	list, ok := s.GetListByID("work")
	require.True(t, ok)
	assert.Equal(t, models.DefaultIcon, list.Icon)

	task, ok := s.GetTaskByID("t1")
	require.True(t, ok)
	assert.Equal(t, models.PriorityNormal, task.Priority)
}

func TestNew_ReadFailure(t *testing.T) {
	_, err := New(brokenGateway{NewMemoryGateway()}, nil)
	assert.ErrorContains(t, err, "failed to load tasks")
}

func TestAddTask_PersistsWholeCollection(t *testing.T) {
	s, gw := newTestStore(t)

	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("t2", "Two", nil, "l")))

	records, err := gw.GetTasks()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "t1", records[0].ID)
	assert.Equal(t, "t2", records[1].ID)
	assert.Equal(t, 2, gw.TaskWrites)
}

func TestGetTaskByID_ReturnsEqualCopy(t *testing.T) {
	s, _ := newTestStore(t)
	due := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	task := *models.NewTask("t1", "One", &due, "l")
	require.NoError(t, s.AddTask(task))

	got, ok := s.GetTaskByID("t1")
	require.True(t, ok)
	assert.Equal(t, task, got)

	// mutating the copy does not reach the store
	got.SetTitle("changed")
	again, _ := s.GetTaskByID("t1")
	assert.Equal(t, "One", again.Title)
}

func TestSaveTask(t *testing.T) {
	s, gw := newTestStore(t)
	task := *models.NewTask("t1", "One", nil, "l")
	require.NoError(t, s.AddTask(task))

	task.SetTitle("Uno").SetFlagged(true)
	require.NoError(t, s.SaveTask(task))

	records, _ := gw.GetTasks()
	assert.Equal(t, "Uno", records[0].Title)
	assert.True(t, records[0].Flagged)

	writes := gw.TaskWrites
	err := s.SaveTask(*models.NewTask("missing", "x", nil, "l"))
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, writes, gw.TaskWrites, "unknown task must not be written")
}

func TestUpdateTask(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "l")))

	updated, err := s.UpdateTask("t1", func(task *models.Task) {
		task.SetPriority(models.PriorityHigh).ToggleComplete()
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.True(t, updated.Completed)

	records, _ := gw.GetTasks()
	assert.Equal(t, "high", records[0].Priority)
	assert.True(t, records[0].Completed)

	_, err = s.UpdateTask("missing", func(*models.Task) {})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRemoveTask(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("t2", "Two", nil, "l")))

	removed, err := s.RemoveTask("t1")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := s.GetTaskByID("t1")
	assert.False(t, ok)
	records, _ := gw.GetTasks()
	assert.Len(t, records, 1)
}

func TestRemoveTask_MissingDoesNotWrite(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "l")))
	writes := gw.TaskWrites

	removed, err := s.RemoveTask("nope")
	require.NoError(t, err)
	assert.False(t, removed)

	records, _ := gw.GetTasks()
	assert.Len(t, records, 1)
	assert.Equal(t, writes, gw.TaskWrites)
}

func TestRemoveTasksByListID(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "a")))
	require.NoError(t, s.AddTask(*models.NewTask("t2", "Two", nil, "b")))
	require.NoError(t, s.AddTask(*models.NewTask("t3", "Three", nil, "a")))
	writes := gw.TaskWrites

	count, err := s.RemoveTasksByListID("a")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, writes+1, gw.TaskWrites, "one write for the whole batch")

	assert.Empty(t, s.GetTasksByListID("a"))
	remaining := s.GetAllTasks()
	require.Len(t, remaining, 1)
	assert.Equal(t, "t2", remaining[0].ID)

	count, err = s.RemoveTasksByListID("a")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, writes+1, gw.TaskWrites, "nothing removed, nothing written")
}

func TestGetTasksDueToday(t *testing.T) {
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.Local)
	s, _ := newTestStore(t, fixedClock(now))

	startOfDay := time.Date(2026, 2, 13, 0, 0, 0, 0, time.Local)
	endOfDay := time.Date(2026, 2, 13, 23, 59, 59, 999999999, time.Local)
	later := now.Add(25 * time.Hour)
	yesterday := startOfDay.Add(-time.Nanosecond)

	require.NoError(t, s.AddTask(*models.NewTask("now", "now", &now, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("start", "start", &startOfDay, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("end", "end", &endOfDay, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("later", "later", &later, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("yesterday", "yesterday", &yesterday, "l")))
	require.NoError(t, s.AddTask(*models.NewTask("undated", "undated", nil, "l")))

	var ids []string
	for _, task := range s.GetTasksDueToday() {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"now", "start", "end"}, ids)
}

func TestGetFlaggedTasks(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddTask(*models.NewTask("t1", "One", nil, "l").SetFlagged(true)))
	require.NoError(t, s.AddTask(*models.NewTask("t2", "Two", nil, "l")))

	flagged := s.GetFlaggedTasks()
	require.Len(t, flagged, 1)
	assert.Equal(t, "t1", flagged[0].ID)
}

func TestLists(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, s.AddList(*models.NewDefaultList()))
	require.NoError(t, s.AddList(*models.NewTaskList("work", "Work", "")))

	assert.Equal(t, 2, s.ListCount())

	got, ok := s.GetListByName("FAMILY")
	require.True(t, ok)
	assert.Equal(t, models.DefaultListID, got.ID)

	_, ok = s.GetListByName("Famil")
	assert.False(t, ok, "name lookup is an exact match")

	updated, err := s.UpdateList("work", func(l *models.TaskList) { l.SetIcon("briefcase") })
	require.NoError(t, err)
	assert.Equal(t, "briefcase", updated.Icon)

	records, _ := gw.GetLists()
	assert.Equal(t, "briefcase", records[1].Icon)

	renamed := got
	renamed.SetName("Home")
	require.NoError(t, s.SaveList(renamed))
	assert.ErrorIs(t, s.SaveList(models.TaskList{ID: "ghost"}), ErrListNotFound)

	removed, err := s.RemoveList("work")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveList("work")
	require.NoError(t, err)
	assert.False(t, removed)

	lists := s.GetAllLists()
	require.Len(t, lists, 1)
	assert.Equal(t, "Home", lists[0].Name)
}

func TestGetListByName_FirstMatchWins(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.AddList(*models.NewTaskList("a", "Work", "")))
	require.NoError(t, s.AddList(*models.NewTaskList("b", "WORK", "")))

	got, ok := s.GetListByName("work")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
}

func TestInitializeWithSampleDataIfNeeded(t *testing.T) {
	now := time.Date(2026, 2, 13, 9, 0, 0, 0, time.Local)
	s, gw := newTestStore(t, fixedClock(now))

	seeded, err := s.InitializeWithSampleDataIfNeeded()
	require.NoError(t, err)
	assert.True(t, seeded)

	lists := s.GetAllLists()
	require.Len(t, lists, 1)
	assert.Equal(t, *models.NewDefaultList(), lists[0])

	tasks := s.GetTasksByListID(models.DefaultListID)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].DueDate.Equal(now.Add(24*time.Hour)))
	assert.True(t, tasks[1].DueDate.Equal(now))
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)

	taskRecords, _ := gw.GetTasks()
	listRecords, _ := gw.GetLists()
	assert.Len(t, taskRecords, 2)
	assert.Len(t, listRecords, 1)

	seeded, err = s.InitializeWithSampleDataIfNeeded()
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, s.GetAllTasks(), 2)
}

func TestWriteFailure_KeepsInMemoryChange(t *testing.T) {
	s, err := New(failingGateway{NewMemoryGateway()}, nil)
	require.NoError(t, err)

	err = s.AddTask(*models.NewTask("t1", "One", nil, "l"))
	require.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, errQuota)

	_, ok := s.GetTaskByID("t1")
	assert.True(t, ok, "in-memory mutation is not rolled back")

	updated, err := s.UpdateTask("t1", func(task *models.Task) { task.SetNotes("n") })
	require.ErrorIs(t, err, ErrNotPersisted)
	require.NotNil(t, updated)
	assert.Equal(t, "n", updated.Notes)

	err = s.AddList(*models.NewDefaultList())
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.Equal(t, 1, s.ListCount())
}

func TestClearAll(t *testing.T) {
	s, gw := newTestStore(t)
	_, err := s.InitializeWithSampleDataIfNeeded()
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.GetAllTasks())
	assert.Equal(t, 0, s.ListCount())

	tasks, _ := gw.GetTasks()
	lists, _ := gw.GetLists()
	assert.Nil(t, tasks)
	assert.Nil(t, lists)
}

func TestLoadAll_Reloads(t *testing.T) {
	s, gw := newTestStore(t)
	require.NoError(t, gw.SaveLists([]models.ListRecord{{ID: "x", Name: "External"}}))

	require.NoError(t, s.LoadAll())
	_, ok := s.GetListByName("external")
	assert.True(t, ok)
}
