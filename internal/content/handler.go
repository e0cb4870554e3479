package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"contentlib/internal/content/graph"
	"contentlib/pkg/logger"

	graphql "github.com/graph-gophers/graphql-go"
)

type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type GraphQLHandler struct {
	Schema *graphql.Schema
}

func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{Schema: schema}
}

func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	ctx := r.Context()

	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if v := q.Get("variables"); v != "" {
			if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
				http.Error(w, "Invalid variables parameter", http.StatusBadRequest)
				return
			}
		}
		ctx = graph.ReadOnly(ctx)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "Missing query", http.StatusBadRequest)
		return
	}

	resp := h.Schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	for _, qe := range resp.Errors {
		if errors.As(qe.ResolverError, &graph.ReadOnlyError{}) {
			http.Error(w, "Mutations must use POST", http.StatusMethodNotAllowed)
			return
		}
	}
	if len(resp.Errors) > 0 {
		logger.Sugar.Debugf("GraphQL request returned %d error(s): %v", len(resp.Errors), resp.Errors[0])
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Sugar.Errorf("Handler: Failed to encode GraphQL response: %v", err)
	}
}
