package views

import (
	"strings"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/config"
	"github.com/tgienger/tasklist/internal/models"
)

// FilterKind selects which tasks a task view shows
type FilterKind int

const (
	FilterToday FilterKind = iota
	FilterAll
	FilterFlagged
	FilterList
)

// Filter is either one of the built-in views or a single list
type Filter struct {
	Kind   FilterKind
	ListID string
	Name   string
}

// BuiltinFilters are shown above the user lists
func BuiltinFilters() []Filter {
	return []Filter{
		{Kind: FilterToday, Name: "Today"},
		{Kind: FilterAll, Name: "All"},
		{Kind: FilterFlagged, Name: "Flagged"},
	}
}

// Tasks returns the tasks matching f
func (f Filter) Tasks(a *app.App) []models.Task {
	switch f.Kind {
	case FilterToday:
		return a.Tasks.GetTasksDueToday()
	case FilterFlagged:
		return a.Tasks.GetFlaggedTasks()
	case FilterList:
		return a.Tasks.GetTasksByListID(f.ListID)
	}
	return a.Tasks.GetAllTasks()
}

const listKeyPrefix = "list:"

// Key encodes f for the settings table
func (f Filter) Key() string {
	switch f.Kind {
	case FilterToday:
		return config.ViewToday
	case FilterFlagged:
		return config.ViewFlagged
	case FilterList:
		return listKeyPrefix + f.ListID
	}
	return config.ViewAll
}

// FilterFromKey decodes a Key. A list that no longer exists yields false.
func FilterFromKey(a *app.App, key string) (Filter, bool) {
	if id, ok := strings.CutPrefix(key, listKeyPrefix); ok {
		list, found := a.Lists.GetListByID(id)
		if !found {
			return Filter{}, false
		}
		return Filter{Kind: FilterList, ListID: list.ID, Name: list.Name}, true
	}
	for _, f := range BuiltinFilters() {
		if f.Key() == key {
			return f, true
		}
	}
	return Filter{}, false
}
