package graph

import (
	"context"
	"errors"

	"contentlib/internal/content/model"
	"contentlib/internal/content/repository"
	"contentlib/internal/content/service"
	"contentlib/pkg/logger"
	"contentlib/pkg/metrics"

	graphql "github.com/graph-gophers/graphql-go"
)

// NotFoundError is returned by mutations that target a missing id.
type NotFoundError struct {
	ID int32
}

func (e NotFoundError) Error() string {
	return "content not found"
}

func (e NotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "NOT_FOUND", "id": e.ID}
}

// ReadOnlyError is returned by every mutation executed under a ReadOnly
// context.
type ReadOnlyError struct {
	Field string
}

func (e ReadOnlyError) Error() string {
	return "mutations must use POST"
}

func (e ReadOnlyError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "METHOD_NOT_ALLOWED", "field": e.Field}
}

type readOnlyKey struct{}

// ReadOnly marks ctx so that mutation resolvers refuse to run. The HTTP
// handler uses it for GET requests.
func ReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey{}, true)
}

func checkWritable(ctx context.Context, field string) error {
	if ro, _ := ctx.Value(readOnlyKey{}).(bool); ro {
		err := ReadOnlyError{Field: field}
		observe(field, err)
		return err
	}
	return nil
}

type Resolver struct {
	Service *service.ContentService
}

type createContentInput struct {
	Title       string
	Description *string
}

type updateContentInput struct {
	Title       graphql.NullString
	Description graphql.NullString
}

func observe(field string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.As(err, &NotFoundError{}):
		outcome = "not_found"
	case errors.As(err, &ReadOnlyError{}):
		outcome = "rejected"
	default:
		outcome = "error"
		logger.Sugar.Errorf("GraphQL %s failed: %v", field, err)
	}
	metrics.GraphQLOperations.WithLabelValues(field, outcome).Inc()
}

func mutationErr(id int32, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError{ID: id}
	}
	return err
}

func (r *Resolver) Contents(ctx context.Context) ([]*contentResolver, error) {
	list, err := r.Service.List(ctx)
	observe("contents", err)
	if err != nil {
		return nil, err
	}
	out := make([]*contentResolver, 0, len(list))
	for _, c := range list {
		out = append(out, &contentResolver{c: model.ToResponse(c)})
	}
	return out, nil
}

func (r *Resolver) Content(ctx context.Context, args struct{ ID int32 }) (*contentResolver, error) {
	c, err := r.Service.Get(ctx, int(args.ID))
	observe("content", err)
	if err != nil || c == nil {
		return nil, err
	}
	return &contentResolver{c: model.ToResponse(*c)}, nil
}

func (r *Resolver) CreateContent(ctx context.Context, args struct{ Input createContentInput }) (*contentResolver, error) {
	if err := checkWritable(ctx, "createContent"); err != nil {
		return nil, err
	}
	c, err := r.Service.Create(ctx, model.NewContent{
		Title:       args.Input.Title,
		Description: args.Input.Description,
	})
	observe("createContent", err)
	if err != nil {
		return nil, err
	}
	return &contentResolver{c: model.ToResponse(*c)}, nil
}

func (r *Resolver) UpdateContent(ctx context.Context, args struct {
	ID    int32
	Input updateContentInput
}) (*contentResolver, error) {
	if err := checkWritable(ctx, "updateContent"); err != nil {
		return nil, err
	}
	c, err := r.Service.Update(ctx, int(args.ID), patchFromInput(args.Input))
	err = mutationErr(args.ID, err)
	observe("updateContent", err)
	if err != nil {
		return nil, err
	}
	return &contentResolver{c: model.ToResponse(*c)}, nil
}

func (r *Resolver) DeleteContent(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	if err := checkWritable(ctx, "deleteContent"); err != nil {
		return false, err
	}
	err := mutationErr(args.ID, r.Service.Delete(ctx, int(args.ID)))
	observe("deleteContent", err)
	if err != nil {
		return false, err
	}
	return true, nil
}

// patchFromInput keeps the title unless a non-empty one is supplied. A
// supplied description, including null and "", is always written.
func patchFromInput(in updateContentInput) model.Patch {
	var p model.Patch
	if in.Title.Set && in.Title.Value != nil && *in.Title.Value != "" {
		p.Title = in.Title.Value
	}
	if in.Description.Set {
		p.SetDescription = true
		p.Description = in.Description.Value
	}
	return p
}

type contentResolver struct {
	c model.ContentResponse
}

func (r *contentResolver) ID() int32            { return int32(r.c.ID) }
func (r *contentResolver) Title() string        { return r.c.Title }
func (r *contentResolver) Description() *string { return r.c.Description }
func (r *contentResolver) CreatedAt() string    { return r.c.CreatedAt }
func (r *contentResolver) UpdatedAt() string    { return r.c.UpdatedAt }
