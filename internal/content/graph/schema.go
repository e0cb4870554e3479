package graph

import (
	"context"
	_ "embed"

	"contentlib/internal/content/service"
	"contentlib/pkg/logger"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var SDL string

// NewSchema parses the content schema and binds it to svc.
func NewSchema(svc *service.ContentService) *graphql.Schema {
	return graphql.MustParseSchema(SDL, &Resolver{Service: svc},
		graphql.Logger(panicLogger{}),
		graphql.MaxDepth(10),
	)
}

type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger.Log.Error("GraphQL resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}
