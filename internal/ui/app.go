// Package ui is the bubbletea terminal interface.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/app"
	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/ui/styles"
	"github.com/tgienger/tasklist/internal/ui/views"
)

const lastViewSetting = "last_view"

// Currently active view
type View int

const (
	ViewLists View = iota
	ViewTasks
)

// changedMsg reports that a controller published an event
type changedMsg struct {
	event event.Event
}

type App struct {
	app         *app.App
	currentView View
	lists       *views.ListsView
	tasks       *views.TaskListView
	width       int
	height      int

	events chan event.Event
	subID  string
}

// NewApp creates the root model and subscribes it to change events
func NewApp(a *app.App) *App {
	if !styles.Use(a.Config.UI.Theme) {
		a.Logger.Warn("unknown theme, using default", zap.String("theme", a.Config.UI.Theme))
	}
	m := &App{
		app:         a,
		currentView: ViewLists,
		lists:       views.NewListsView(a),
		events:      make(chan event.Event, 64),
	}
	m.subID = a.Bus.SubscribeAll(m.forward)
	return m
}

// forward runs on the bus. It never blocks: when the buffer is full a
// refresh is already pending.
func (m *App) forward(e event.Event) {
	select {
	case m.events <- e:
	default:
	}
}

func (m *App) waitForEvent() tea.Msg {
	return changedMsg{event: <-m.events}
}

// Close detaches the model from the bus
func (m *App) Close() {
	m.app.Bus.Unsubscribe(m.subID)
}

func (m *App) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent, m.lists.Init()}

	if f, ok := m.startFilter(); ok {
		cmds = append(cmds, m.openFilter(f))
	}
	return tea.Batch(cmds...)
}

// startFilter is the last opened view, or the configured start view
func (m *App) startFilter() (views.Filter, bool) {
	last, err := m.app.Settings.GetSetting(lastViewSetting)
	if err != nil {
		m.app.Logger.Warn("failed to read last view", zap.Error(err))
	}
	if last != "" {
		if f, ok := views.FilterFromKey(m.app, last); ok {
			return f, true
		}
	}
	return views.FilterFromKey(m.app, m.app.Config.UI.StartView)
}

func (m *App) openFilter(f views.Filter) tea.Cmd {
	m.currentView = ViewTasks
	m.tasks = views.NewTaskListView(m.app, f)

	if err := m.app.Settings.SetSetting(lastViewSetting, f.Key()); err != nil {
		m.app.Logger.Warn("failed to save last view", zap.Error(err))
	}

	return tea.Batch(
		m.tasks.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: m.width, Height: m.height}
		},
	)
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The lists view persists, so it always tracks the size
		m.lists.Update(msg)

	case changedMsg:
		m.app.Logger.Debug("refreshing after change", zap.String("event", msg.event.EventType()))
		cmds := []tea.Cmd{m.waitForEvent, m.lists.Reload()}
		if m.tasks != nil {
			cmds = append(cmds, m.tasks.Reload())
		}
		return m, tea.Batch(cmds...)

	case views.SelectedFilter:
		return m, m.openFilter(msg.Filter)

	case views.BackToLists:
		m.currentView = ViewLists
		m.tasks = nil
		if err := m.app.Settings.SetSetting(lastViewSetting, ""); err != nil {
			m.app.Logger.Warn("failed to clear last view", zap.Error(err))
		}
		return m, tea.Batch(
			m.lists.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: m.width, Height: m.height}
			},
		)
	}

	var cmd tea.Cmd
	switch m.currentView {
	case ViewLists:
		_, cmd = m.lists.Update(msg)
	case ViewTasks:
		if m.tasks != nil {
			_, cmd = m.tasks.Update(msg)
		}
	}
	return m, cmd
}

func (m *App) View() string {
	if m.currentView == ViewTasks && m.tasks != nil {
		return m.tasks.View()
	}
	return m.lists.View()
}
