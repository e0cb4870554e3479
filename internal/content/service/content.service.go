package service

import (
	"context"
	"errors"

	"contentlib/internal/content/model"
	"contentlib/internal/content/repository"
)

// Change feed event types.
const (
	CreatedEvent = "CONTENT_CREATED"
	UpdatedEvent = "CONTENT_UPDATED"
	DeletedEvent = "CONTENT_DELETED"
)

var ErrNotFound = repository.ErrNotFound

// Notifier receives an event after every successful mutation.
type Notifier interface {
	Notify(eventType string, contentID int, payload interface{})
}

type ContentService struct {
	Repo     repository.ContentRepository
	Notifier Notifier
}

// NewContentService wires the service. notifier may be nil.
func NewContentService(repo repository.ContentRepository, notifier Notifier) *ContentService {
	return &ContentService{Repo: repo, Notifier: notifier}
}

func (s *ContentService) notify(eventType string, id int, payload interface{}) {
	if s.Notifier != nil {
		s.Notifier.Notify(eventType, id, payload)
	}
}

func (s *ContentService) List(ctx context.Context) ([]model.Content, error) {
	return s.Repo.List(ctx)
}

// Get returns nil without an error when id does not exist.
func (s *ContentService) Get(ctx context.Context, id int) (*model.Content, error) {
	c, err := s.Repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *ContentService) Create(ctx context.Context, in model.NewContent) (*model.Content, error) {
	c, err := s.Repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.notify(CreatedEvent, c.ID, model.ToResponse(*c))
	return c, nil
}

func (s *ContentService) Update(ctx context.Context, id int, patch model.Patch) (*model.Content, error) {
	c, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notify(UpdatedEvent, c.ID, model.ToResponse(*c))
	return c, nil
}

func (s *ContentService) Delete(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(DeletedEvent, id, map[string]int{"id": id})
	return nil
}
