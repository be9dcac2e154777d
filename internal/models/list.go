package models

// Well-known values for the list created when none exist
const (
	DefaultIcon = "list"

	DefaultListID   = "default"
	DefaultListName = "Family"
	DefaultListIcon = "home"
)

// TaskList is a named grouping of tasks
type TaskList struct {
	ID   string
	Name string
	Icon string
}

// NewTaskList creates a list, falling back to the default icon
func NewTaskList(id, name, icon string) *TaskList {
	if icon == "" {
		icon = DefaultIcon
	}
	return &TaskList{ID: id, Name: name, Icon: icon}
}

// NewDefaultList returns the list used when a store has no lists
func NewDefaultList() *TaskList {
	return NewTaskList(DefaultListID, DefaultListName, DefaultListIcon)
}

func (l *TaskList) SetName(name string) *TaskList {
	l.Name = name
	return l
}

func (l *TaskList) SetIcon(icon string) *TaskList {
	l.Icon = icon
	return l
}

// ListRecord is the serialized form of a TaskList
type ListRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

func (l TaskList) Record() ListRecord {
	return ListRecord{ID: l.ID, Name: l.Name, Icon: l.Icon}
}

func ListFromRecord(r ListRecord) TaskList {
	return *NewTaskList(r.ID, r.Name, r.Icon)
}
