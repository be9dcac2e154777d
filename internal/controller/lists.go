package controller

import (
	"errors"
	"strings"

	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/models"
	"github.com/tgienger/tasklist/internal/store"
)

// ListInput holds the user-editable fields of a list
type ListInput struct {
	Name string
	Icon string // empty keeps the current icon, or "list" for new lists
}

// CascadeFunc removes everything that belongs to a deleted list and
// returns how many tasks it removed.
type CascadeFunc func(listID string) (int, error)

// ListController owns the list rules: names are unique ignoring case and
// the last remaining list can never be deleted.
type ListController struct {
	store ListStore
	pub   Publisher
}

// NewListController creates a list controller. pub may be nil.
func NewListController(s ListStore, pub Publisher) *ListController {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &ListController{store: s, pub: pub}
}

// CreateList adds a new list
func (c *ListController) CreateList(in ListInput) (*models.TaskList, error) {
	name := strings.TrimSpace(in.Name)
	if err := c.checkName(name, ""); err != nil {
		return nil, err
	}

	list := models.NewTaskList(models.NewListID(), name, in.Icon)
	err := c.store.AddList(*list)
	if applied(err) {
		c.pub.Publish(event.NewListCreatedEvent(*list))
	}
	return list, err
}

// UpdateList renames a list and replaces its icon when one is given
func (c *ListController) UpdateList(id string, in ListInput) (*models.TaskList, error) {
	if _, ok := c.store.GetListByID(id); !ok {
		return nil, store.ErrListNotFound
	}

	name := strings.TrimSpace(in.Name)
	if err := c.checkName(name, id); err != nil {
		return nil, err
	}

	list, err := c.store.UpdateList(id, func(l *models.TaskList) {
		l.SetName(name)
		if in.Icon != "" {
			l.SetIcon(in.Icon)
		}
	})
	if list != nil && applied(err) {
		c.pub.Publish(event.NewListUpdatedEvent(*list))
	}
	return list, err
}

// checkName rejects empty names and names used by a list other than selfID
func (c *ListController) checkName(name, selfID string) error {
	if name == "" {
		return ErrEmptyListName
	}
	for _, l := range c.store.GetAllLists() {
		if l.ID != selfID && strings.EqualFold(l.Name, name) {
			return ErrDuplicateListName
		}
	}
	return nil
}

// DeleteList removes a list and hands its ID to onCascade so the caller
// can remove the list's tasks. The last remaining list is never deleted:
// DeleteList returns false and ErrLastList without touching anything.
// A list that does not exist yields false and no error.
func (c *ListController) DeleteList(id string, onCascade CascadeFunc) (bool, error) {
	if c.store.ListCount() <= 1 {
		return false, ErrLastList
	}

	removed, err := c.store.RemoveList(id)
	if !removed {
		return false, err
	}

	var tasksRemoved int
	var cascadeErr error
	if onCascade != nil {
		tasksRemoved, cascadeErr = onCascade(id)
	}
	c.pub.Publish(event.NewListDeletedEvent(id, tasksRemoved))

	return true, errors.Join(err, cascadeErr)
}

func (c *ListController) GetListByID(id string) (models.TaskList, bool) {
	return c.store.GetListByID(id)
}

func (c *ListController) GetListByName(name string) (models.TaskList, bool) {
	return c.store.GetListByName(name)
}

func (c *ListController) GetAllLists() []models.TaskList {
	return c.store.GetAllLists()
}

// CreateDefaultList returns the first list, creating the well-known
// default list when there are none.
func (c *ListController) CreateDefaultList() (*models.TaskList, error) {
	if lists := c.store.GetAllLists(); len(lists) > 0 {
		return &lists[0], nil
	}

	list := models.NewDefaultList()
	err := c.store.AddList(*list)
	if applied(err) {
		c.pub.Publish(event.NewListCreatedEvent(*list))
	}
	return list, err
}

// DefaultListID returns the ID new tasks go to when no list is given
func (c *ListController) DefaultListID() (string, error) {
	if lists := c.store.GetAllLists(); len(lists) > 0 {
		return lists[0].ID, nil
	}
	list, err := c.CreateDefaultList()
	if !applied(err) {
		return "", err
	}
	return list.ID, err
}
