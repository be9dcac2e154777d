// Package app wires configuration, persistence, the event bus and the
// controllers into one object shared by the CLI and the TUI.
package app

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tgienger/tasklist/internal/config"
	"github.com/tgienger/tasklist/internal/controller"
	"github.com/tgienger/tasklist/internal/db"
	"github.com/tgienger/tasklist/internal/event"
	"github.com/tgienger/tasklist/internal/filestore"
	"github.com/tgienger/tasklist/internal/store"
)

// Settings stores small UI preferences such as the last opened view
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// App is the assembled tasklist core
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *store.DataStore
	Bus      *event.Bus
	Tasks    *controller.TaskController
	Lists    *controller.ListController
	Settings Settings

	close func() error
}

// New opens the configured backend, loads the data and makes sure at
// least one list exists.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	gateway, settings, closeFn, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	s, err := store.New(gateway, logger)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	bus := event.NewBus(logger)
	lists := controller.NewListController(s, bus)
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    s,
		Bus:      bus,
		Tasks:    controller.NewTaskController(s, lists, bus),
		Lists:    lists,
		Settings: settings,
		close:    closeFn,
	}

	if err := a.bootstrap(); err != nil {
		_ = closeFn()
		return nil, err
	}
	return a, nil
}

// bootstrap seeds sample data into an empty store when configured and
// creates the default list. Writes that fail are logged by the store and
// do not stop startup.
func (a *App) bootstrap() error {
	if a.Config.SampleData {
		if _, err := a.Store.InitializeWithSampleDataIfNeeded(); err != nil && !errors.Is(err, store.ErrNotPersisted) {
			return err
		}
	}

	if _, err := a.Lists.CreateDefaultList(); err != nil && !errors.Is(err, store.ErrNotPersisted) {
		return err
	}
	return nil
}

// DeleteList deletes a list together with its tasks
func (a *App) DeleteList(id string) (bool, error) {
	return a.Lists.DeleteList(id, a.Tasks.DeleteTasksByListID)
}

// Reset removes every task and list, then recreates the default list
func (a *App) Reset() error {
	if err := a.Store.ClearAll(); err != nil {
		return err
	}
	_, err := a.Lists.CreateDefaultList()
	return err
}

// Close releases the backend
func (a *App) Close() error {
	a.Bus.Clear()
	_ = a.Logger.Sync()
	return a.close()
}

func openBackend(cfg *config.Config, logger *zap.Logger) (store.Gateway, Settings, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		database, err := db.New(cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, database, database.Close, nil

	case config.BackendFile:
		fs, err := filestore.New(cfg.Storage.Dir, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return fs, newMemorySettings(), noop, nil

	case config.BackendMemory:
		return store.NewMemoryGateway(), newMemorySettings(), noop, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// memorySettings is used by backends without a settings table
type memorySettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySettings() *memorySettings {
	return &memorySettings{values: make(map[string]string)}
}

func (m *memorySettings) GetSetting(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memorySettings) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
