package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/models"
	"github.com/tgienger/tasklist/internal/store"
	"github.com/tgienger/tasklist/internal/ui/keys"
	"github.com/tgienger/tasklist/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func isPersistError(err error) bool {
	return errors.Is(err, store.ErrNotPersisted)
}

// Edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDue
	fieldList
	fieldPriority
	fieldFlagged
	fieldNotes
	fieldSave
	fieldCount
)

// BackToLists asks the app to return to the lists view
type BackToLists struct{}

type tasksLoadedMsg struct {
	tasks []models.Task
}

// TaskListView shows the tasks of one filter
type TaskListView struct {
	app    *app.App
	filter Filter
	tasks  []models.Task
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	cursor  int
	scrollY int
	status  string

	// Task creation/editing
	editing      bool
	editingID    string
	editTitle    textinput.Model
	editDue      textinput.Model
	editList     textinput.Model
	editPriority textinput.Model
	editFlagged  bool
	editNotes    textarea.Model
	editFocusIdx int

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	showHelpPopup bool
}

func NewTaskListView(a *app.App, filter Filter) *TaskListView {
	s := styles.NewStyles()

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	due := textinput.New()
	due.Placeholder = models.DueDateLayout + " or " + models.DueDateTimeLayout
	due.CharLimit = 16

	listName := textinput.New()
	listName.Placeholder = "Default list"
	listName.CharLimit = 100

	priority := textinput.New()
	priority.Placeholder = string(models.PriorityNormal)
	priority.CharLimit = 10

	notes := textarea.New()
	notes.Placeholder = "Notes"
	notes.ShowLineNumbers = false
	notes.SetHeight(3)
	notes.SetWidth(50)

	return &TaskListView{
		app:          a,
		filter:       filter,
		styles:       s,
		keys:         keys.DefaultKeyMap(),
		now:          time.Now,
		editTitle:    title,
		editDue:      due,
		editList:     listName,
		editPriority: priority,
		editNotes:    notes,
	}
}

// Filter returns the filter this view shows
func (v *TaskListView) Filter() Filter {
	return v.filter
}

func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

// Reload re-reads the tasks after a change
func (v *TaskListView) Reload() tea.Cmd {
	if v.filter.Kind == FilterList {
		list, ok := v.app.Lists.GetListByID(v.filter.ListID)
		if !ok {
			return func() tea.Msg { return BackToLists{} }
		}
		v.filter.Name = list.Name
	}
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{tasks: v.filter.Tasks(v.app)}
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editNotes.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.status = ""

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToLists{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if task, ok := v.selected(); ok {
			_, err := v.app.Tasks.ToggleTaskCompletion(task.ID)
			v.setStatus(err)
		}
		return v, nil

	case key.Matches(msg, v.keys.Flag):
		if task, ok := v.selected(); ok {
			_, err := v.app.Tasks.ToggleTaskFlag(task.ID)
			v.setStatus(err)
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) setStatus(err error) {
	if err != nil {
		v.status = errorText(err)
	}
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		_, err := v.app.Tasks.DeleteTask(v.deleteTargetID)
		v.setStatus(err)
		v.confirmingDelete = false
		return v, nil
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.status = ""
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldFlagged:
			v.editFlagged = !v.editFlagged
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		case fieldNotes:
			// newline in the textarea
		default:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}

	case key.Matches(msg, v.keys.Toggle):
		if v.editFocusIdx == fieldFlagged {
			v.editFlagged = !v.editFlagged
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	case fieldList:
		v.editList, cmd = v.editList.Update(msg)
	case fieldPriority:
		v.editPriority, cmd = v.editPriority.Update(msg)
	case fieldNotes:
		v.editNotes, cmd = v.editNotes.Update(msg)
	}
	return v, cmd
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many two-line task rows fit on screen
func (v *TaskListView) visibleItems() int {
	return max((v.height-8)/2, 1)
}

// startNewTask opens the form with defaults taken from the current filter
func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingID = ""
	v.editFocusIdx = fieldTitle
	v.editTitle.Reset()
	v.editDue.Reset()
	v.editList.Reset()
	v.editPriority.SetValue(string(models.PriorityNormal))
	v.editNotes.Reset()
	v.editFlagged = false

	switch v.filter.Kind {
	case FilterToday:
		today := v.now()
		v.editDue.SetValue(today.Format(models.DueDateLayout))
	case FilterFlagged:
		v.editFlagged = true
	case FilterList:
		v.editList.SetValue(v.filter.Name)
	}
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingID = task.ID
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(task.Title)
	v.editDue.SetValue(models.FormatDueDate(task.DueDate))
	v.editList.SetValue(v.listName(task.ListID))
	v.editPriority.SetValue(string(task.Priority))
	v.editFlagged = task.Flagged
	v.editNotes.SetValue(task.Notes)
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDue.Blur()
	v.editList.Blur()
	v.editPriority.Blur()
	v.editNotes.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDue:
		v.editDue.Focus()
	case fieldList:
		v.editList.Focus()
	case fieldPriority:
		v.editPriority.Focus()
	case fieldNotes:
		v.editNotes.Focus()
	}
}

// formInput validates the form. The returned message is shown in the form.
func (v *TaskListView) formInput() (controller.TaskInput, string) {
	in := controller.TaskInput{
		Title:   v.editTitle.Value(),
		Notes:   strings.TrimSpace(v.editNotes.Value()),
		Flagged: v.editFlagged,
	}

	due, err := models.ParseDueDate(v.editDue.Value())
	if err != nil {
		return in, err.Error()
	}
	in.DueDate = due

	if name := strings.TrimSpace(v.editList.Value()); name != "" {
		list, ok := v.app.Lists.GetListByName(name)
		if !ok {
			return in, fmt.Sprintf("No list named %q", name)
		}
		in.ListID = list.ID
	}

	if p := strings.TrimSpace(v.editPriority.Value()); p != "" {
		priority, ok := models.ParsePriority(p)
		if !ok {
			return in, "Priority must be low, normal or high"
		}
		in.Priority = priority
	}
	return in, ""
}

func (v *TaskListView) saveTask() tea.Cmd {
	in, problem := v.formInput()
	if problem != "" {
		v.status = problem
		return nil
	}

	var err error
	if v.editingID == "" {
		_, err = v.app.Tasks.CreateTask(in)
	} else {
		_, err = v.app.Tasks.UpdateTask(v.editingID, in)
	}
	if err != nil && !isPersistError(err) {
		v.status = errorText(err)
		return nil
	}

	v.status = ""
	v.setStatus(err)
	v.editing = false
	return nil
}

func (v *TaskListView) listName(id string) string {
	if list, ok := v.app.Lists.GetListByID(id); ok {
		return list.Name
	}
	return ""
}

func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.filter.Name))
	b.WriteString(v.styles.Count.Render(fmt.Sprintf("  %d", len(v.tasks))))
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if v.status != "" {
		b.WriteString(v.styles.StatusError.Render(v.status))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderTaskList() string {
	if len(v.tasks) == 0 {
		return v.styles.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	check := "[ ]"
	title := task.Title
	if task.Completed {
		check = "[x]"
		title = s.TaskCompleted.Render(title)
	}

	line := check + " " + title
	if task.Flagged {
		line += " " + s.Flag.Render("⚑")
	}
	switch task.Priority {
	case models.PriorityHigh:
		line += " " + s.PriorityHigh.Render("!!")
	case models.PriorityLow:
		line += " " + s.PriorityLow.Render("↓")
	}

	var details []string
	if task.DueDate != nil {
		dueStyle := s.Due
		if !task.Completed && task.DueDate.Before(v.now()) {
			dueStyle = s.Overdue
		}
		details = append(details, dueStyle.Render(models.FormatDueDate(task.DueDate)))
	}
	if v.filter.Kind != FilterList {
		details = append(details, v.listName(task.ListID))
	}
	if task.Notes != "" {
		note, _, _ := strings.Cut(task.Notes, "\n")
		details = append(details, note)
	}

	rowStyle := s.ListItem
	detailStyle := s.ListItem.Foreground(styles.Current.ForegroundDim)
	if selected {
		rowStyle = s.ListSelected
		detailStyle = s.ListSelected.Foreground(styles.Current.ForegroundDim)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		rowStyle.Width(width).Render(line),
		detailStyle.Width(width).Render("    "+strings.Join(details, " • ")),
	)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if v.editingID != "" {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	flagged := "[ ] flagged"
	if v.editFlagged {
		flagged = "[x] flagged"
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"Due:",
		fieldStyle(fieldDue).Width(inputWidth).Render(v.editDue.View()),
		"List:",
		fieldStyle(fieldList).Width(inputWidth).Render(v.editList.View()),
		"Priority (low, normal, high):",
		fieldStyle(fieldPriority).Width(20).Render(v.editPriority.View()),
		fieldStyle(fieldFlagged).Render(flagged),
		"Notes:",
		fieldStyle(fieldNotes).Render(v.editNotes.View()),
		"",
		btnStyle.Render(" Save "),
		s.StatusError.Render(v.status),
		s.TitleMuted.Render("Tab: next • Space: toggle flag • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s done • %s flag • %s edit • %s new • %s del • %s back • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  toggle done",
		s.HelpKey.Render("f") + "      toggle flag",
		s.HelpKey.Render("e/↵") + "    edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("esc") + "    back to lists",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be deleted.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
