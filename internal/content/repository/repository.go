package repository

import (
	"context"
	"errors"

	"contentlib/internal/content/model"
)

var ErrNotFound = errors.New("content not found")

// ContentRepository is the record store behind the content service.
// List returns records newest first. Get, Update and Delete return
// ErrNotFound (possibly wrapped) for a missing id.
type ContentRepository interface {
	List(ctx context.Context) ([]model.Content, error)
	Get(ctx context.Context, id int) (*model.Content, error)
	Create(ctx context.Context, in model.NewContent) (*model.Content, error)
	Update(ctx context.Context, id int, patch model.Patch) (*model.Content, error)
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
}

var (
	_ ContentRepository = (*PostgresRepository)(nil)
	_ ContentRepository = (*MemoryRepository)(nil)
	_ ContentRepository = (*MongoRepository)(nil)
)
