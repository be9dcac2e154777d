package store

import (
	"sync"

	"github.com/tgienger/tasklist/internal/models"
)

// Gateway loads and saves the two persisted collections.
//
// Get methods return a nil slice when the collection has never been
// written or its stored form could not be decoded. Save methods replace
// the whole collection.
type Gateway interface {
	GetTasks() ([]models.TaskRecord, error)
	SaveTasks(tasks []models.TaskRecord) error
	GetLists() ([]models.ListRecord, error)
	SaveLists(lists []models.ListRecord) error
	ClearAll() error
}

// MemoryGateway keeps collections in memory. Nothing survives the process.
type MemoryGateway struct {
	mu    sync.Mutex
	tasks []models.TaskRecord
	lists []models.ListRecord

	// TaskWrites and ListWrites count successful saves
	TaskWrites int
	ListWrites int
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

func (g *MemoryGateway) GetTasks() ([]models.TaskRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tasks == nil {
		return nil, nil
	}
	return append([]models.TaskRecord(nil), g.tasks...), nil
}

func (g *MemoryGateway) SaveTasks(tasks []models.TaskRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks = append(make([]models.TaskRecord, 0, len(tasks)), tasks...)
	g.TaskWrites++
	return nil
}

func (g *MemoryGateway) GetLists() ([]models.ListRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lists == nil {
		return nil, nil
	}
	return append([]models.ListRecord(nil), g.lists...), nil
}

func (g *MemoryGateway) SaveLists(lists []models.ListRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lists = append(make([]models.ListRecord, 0, len(lists)), lists...)
	g.ListWrites++
	return nil
}

func (g *MemoryGateway) ClearAll() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks = nil
	g.lists = nil
	return nil
}
