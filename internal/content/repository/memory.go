package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"contentlib/internal/content/model"
)

// MemoryRepository keeps records in process memory. It backs tests and
// STORE_DRIVER=memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	store  map[int]model.Content
	nextID int
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[int]model.Content), nextID: 1, now: time.Now}
}

// WithClock replaces the time source used for created/updated timestamps.
func (m *MemoryRepository) WithClock(now func() time.Time) *MemoryRepository {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func copyContent(c model.Content) *model.Content {
	if c.Description != nil {
		d := *c.Description
		c.Description = &d
	}
	return &c
}

func (m *MemoryRepository) List(ctx context.Context) ([]model.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Content, 0, len(m.store))
	for _, c := range m.store {
		out = append(out, *copyContent(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) Get(ctx context.Context, id int) (*model.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	return copyContent(c), nil
}

func (m *MemoryRepository) Create(ctx context.Context, in model.NewContent) (*model.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	c := model.Content{
		ID:          m.nextID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.nextID++
	stored := copyContent(c)
	m.store[c.ID] = *stored
	return copyContent(*stored), nil
}

func (m *MemoryRepository) Update(ctx context.Context, id int, patch model.Patch) (*model.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	c = patch.Apply(c)
	c.UpdatedAt = m.now()
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	m.store[id] = c
	return copyContent(c), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return fmt.Errorf("content %d: %w", id, ErrNotFound)
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[int]model.Content)
	return nil
}
