package views

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/ui/keys"
	"github.com/tgienger/tasklist/internal/ui/styles"
)

var iconGlyphs = map[string]string{
	"today":     "◷",
	"all":       "≡",
	"flagged":   "⚑",
	"home":      "⌂",
	"work":      "⚒",
	"briefcase": "⚒",
	"cart":      "⛟",
	"star":      "★",
	"heart":     "♥",
}

func iconGlyph(name string) string {
	if g, ok := iconGlyphs[name]; ok {
		return g
	}
	return "•"
}

type filterItem struct {
	filter Filter
	icon   string
	count  int
}

func (i filterItem) Title() string       { return i.filter.Name }
func (i filterItem) Description() string { return fmt.Sprintf("%d", i.count) }
func (i filterItem) FilterValue() string { return i.filter.Name }

type filterDelegate struct {
	styles *styles.Styles
	width  int
}

func (d filterDelegate) Height() int                               { return 1 }
func (d filterDelegate) Spacing() int                              { return 0 }
func (d filterDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d filterDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(filterItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	rowStyle := d.styles.ListItem
	if index == m.Index() {
		rowStyle = d.styles.ListSelected
	}

	left := d.styles.Icon.Render(iconGlyph(it.icon)) + " " + it.Title()
	right := d.styles.Count.Render(it.Description())
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-4, 1)

	fmt.Fprint(w, rowStyle.Width(width).Render(left+strings.Repeat(" ", gap)+right))
}

// SelectedFilter asks the app to open a task view
type SelectedFilter struct {
	Filter Filter
}

type listsLoadedMsg struct {
	items []list.Item
}

// ListsView shows the built-in filters followed by the user's lists
type ListsView struct {
	app      *app.App
	list     list.Model
	delegate *filterDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	status   string

	// list form, used for both new and rename
	editing    bool
	editingID  string
	editName   textinput.Model
	editIcon   textinput.Model
	focusIdx   int // 0=name, 1=icon, 2=save
	userLists  int
	deleting   bool
	deleteItem filterItem

	showHelpPopup bool
}

func NewListsView(a *app.App) *ListsView {
	s := styles.NewStyles()

	name := textinput.New()
	name.Placeholder = "List name"
	name.CharLimit = 100

	icon := textinput.New()
	icon.Placeholder = "Icon (optional: home, work, cart, star)"
	icon.CharLimit = 30

	delegate := &filterDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Lists"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ListsView{
		app:      a,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		editName: name,
		editIcon: icon,
	}
}

func (v *ListsView) Init() tea.Cmd {
	return v.loadLists
}

// Reload refreshes counts and lists after a change
func (v *ListsView) Reload() tea.Cmd {
	return v.loadLists
}

func (v *ListsView) loadLists() tea.Msg {
	var items []list.Item
	for _, f := range BuiltinFilters() {
		items = append(items, filterItem{
			filter: f,
			icon:   f.Key(),
			count:  len(f.Tasks(v.app)),
		})
	}
	for _, l := range v.app.Lists.GetAllLists() {
		f := Filter{Kind: FilterList, ListID: l.ID, Name: l.Name}
		items = append(items, filterItem{
			filter: f,
			icon:   l.Icon,
			count:  len(f.Tasks(v.app)),
		})
	}
	return listsLoadedMsg{items: items}
}

func (v *ListsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case listsLoadedMsg:
		v.list.SetItems(msg.items)
		v.userLists = 0
		for _, it := range msg.items {
			if it.(filterItem).filter.Kind == FilterList {
				v.userLists++
			}
		}
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.deleting {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}

		v.status = ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startEdit("", "", "")
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(filterItem); ok {
				return v, func() tea.Msg {
					return SelectedFilter{Filter: item.filter}
				}
			}
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.selectedUserList(); ok {
				v.startEdit(item.filter.ListID, item.filter.Name, item.icon)
				return v, textinput.Blink
			}
			return v, nil
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.selectedUserList(); ok {
				if v.userLists <= 1 {
					v.status = "The last list cannot be deleted"
					return v, nil
				}
				v.deleting = true
				v.deleteItem = item
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ListsView) selectedUserList() (filterItem, bool) {
	item, ok := v.list.SelectedItem().(filterItem)
	if !ok || item.filter.Kind != FilterList {
		return filterItem{}, false
	}
	return item, true
}

func (v *ListsView) startEdit(id, name, icon string) {
	v.editing = true
	v.editingID = id
	v.focusIdx = 0
	v.editName.SetValue(name)
	v.editIcon.SetValue(icon)
	v.updateFocus()
}

func (v *ListsView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.deleting = false
		if _, err := v.app.DeleteList(v.deleteItem.filter.ListID); err != nil {
			v.status = errorText(err)
		}
		return v, nil
	case "n", "N", "esc":
		v.deleting = false
		return v, nil
	}
	return v, nil
}

func (v *ListsView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveList()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.saveList()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.editName, cmd = v.editName.Update(msg)
	case 1:
		v.editIcon, cmd = v.editIcon.Update(msg)
	}
	return v, cmd
}

// saveList creates or renames a list. Validation errors keep the form open.
func (v *ListsView) saveList() tea.Cmd {
	in := controller.ListInput{
		Name: v.editName.Value(),
		Icon: strings.TrimSpace(v.editIcon.Value()),
	}

	var err error
	if v.editingID == "" {
		_, err = v.app.Lists.CreateList(in)
	} else {
		_, err = v.app.Lists.UpdateList(v.editingID, in)
	}
	if err != nil && !isPersistError(err) {
		v.status = errorText(err)
		return nil
	}

	v.status = ""
	if err != nil {
		v.status = errorText(err)
	}
	v.editing = false
	return nil
}

func (v *ListsView) updateFocus() {
	v.editName.Blur()
	v.editIcon.Blur()
	switch v.focusIdx {
	case 0:
		v.editName.Focus()
	case 1:
		v.editIcon.Focus()
	}
}

func (v *ListsView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.deleting {
		return v.renderDeleteConfirm()
	}
	if v.editing {
		return v.renderEditForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	content := v.list.View() + "\n" + v.renderStatus() + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ListsView) renderStatus() string {
	if v.status == "" {
		return ""
	}
	return v.styles.StatusError.Render(v.status) + "\n"
}

func (v *ListsView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New List"
	if v.editingID != "" {
		formTitle = "Edit List"
	}

	nameStyle := s.Input
	iconStyle := s.Input
	btnStyle := s.Button
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		iconStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.editName.View()),
		"",
		"Icon:",
		iconStyle.Width(inputWidth).Render(v.editIcon.View()),
		"",
		btnStyle.Render(" Save "),
		"",
		v.renderStatus(),
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ListsView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s new • %s rename • %s del • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ListsView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open list",
		s.HelpKey.Render("n") + "      new list",
		s.HelpKey.Render("e") + "      rename list",
		s.HelpKey.Render("d") + "      delete list and its tasks",
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

func (v *ListsView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete List?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q and its %d task(s) will be deleted.", v.deleteItem.filter.Name, v.deleteItem.count)),
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

// errorText turns controller and store errors into a status line
func errorText(err error) string {
	switch {
	case errors.Is(err, controller.ErrLastList):
		return "The last list cannot be deleted"
	case errors.Is(err, controller.ErrDuplicateListName):
		return "A list with that name already exists"
	case errors.Is(err, controller.ErrEmptyListName):
		return "Name is required"
	case errors.Is(err, controller.ErrEmptyTitle):
		return "Title is required"
	case isPersistError(err):
		return "Saved for this session only, see the log"
	}
	return err.Error()
}
