package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
)

type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Client executes one GraphQL operation and decodes its data into out.
type Client interface {
	Do(ctx context.Context, req Request, out interface{}) error
}

type GraphQLErrorEntry struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GraphQLError carries the errors array of a response.
type GraphQLError struct {
	Errors []GraphQLErrorEntry
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		msgs = append(msgs, entry.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *GraphQLError) Code() string {
	for _, entry := range e.Errors {
		if code, ok := entry.Extensions["code"].(string); ok {
			return code
		}
	}
	return ""
}

type response struct {
	Data   json.RawMessage     `json:"data"`
	Errors []GraphQLErrorEntry `json:"errors"`
}

func (r response) decode(out interface{}) error {
	if len(r.Errors) > 0 {
		return &GraphQLError{Errors: r.Errors}
	}
	if out == nil || len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, out)
}

// SchemaClient runs operations against an in-process schema.
type SchemaClient struct {
	Schema *graphql.Schema
}

func NewSchemaClient(schema *graphql.Schema) *SchemaClient {
	return &SchemaClient{Schema: schema}
}

func (c *SchemaClient) Do(ctx context.Context, req Request, out interface{}) error {
	vars, err := normalizeVariables(req.Variables)
	if err != nil {
		return err
	}
	res := c.Schema.Exec(ctx, req.Query, req.OperationName, vars)

	resp := response{Data: res.Data}
	for _, qe := range res.Errors {
		resp.Errors = append(resp.Errors, GraphQLErrorEntry{Message: qe.Message, Extensions: qe.Extensions})
	}
	return resp.decode(out)
}

// normalizeVariables gives typed Go values the shape they would have after
// travelling over the wire as JSON.
func normalizeVariables(vars map[string]interface{}) (map[string]interface{}, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("encode variables: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}
	return out, nil
}

// HTTPClient posts operations to a remote GraphQL endpoint.
type HTTPClient struct {
	Endpoint string
	HTTP     *http.Client
}

func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{Endpoint: endpoint, HTTP: &http.Client{Timeout: 15 * time.Second}}
}

func (c *HTTPClient) Do(ctx context.Context, req Request, out interface{}) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql endpoint returned %s", res.Status)
	}

	var resp response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return resp.decode(out)
}
