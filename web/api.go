package web

import (
	"context"

	"contentlib/internal/content/model"
)

// API is the typed set of operations the pages issue.
type API struct {
	Client Client
}

func NewAPI(client Client) *API {
	return &API{Client: client}
}

func (a *API) Contents(ctx context.Context) ([]model.ContentResponse, error) {
	var data struct {
		Contents []model.ContentResponse `json:"contents"`
	}
	err := a.Client.Do(ctx, Request{Query: getContentsQuery, OperationName: "GetContents"}, &data)
	return data.Contents, err
}

// Content returns nil when the id does not exist.
func (a *API) Content(ctx context.Context, id int32) (*model.ContentResponse, error) {
	var data struct {
		Content *model.ContentResponse `json:"content"`
	}
	err := a.Client.Do(ctx, Request{
		Query:         getContentQuery,
		OperationName: "GetContent",
		Variables:     map[string]interface{}{"id": id},
	}, &data)
	return data.Content, err
}

func (a *API) CreateContent(ctx context.Context, in model.CreateContentInput) (*model.ContentResponse, error) {
	var data struct {
		CreateContent model.ContentResponse `json:"createContent"`
	}
	err := a.Client.Do(ctx, Request{
		Query:         createContentMutation,
		OperationName: "CreateContent",
		Variables:     map[string]interface{}{"input": in},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data.CreateContent, nil
}

func (a *API) UpdateContent(ctx context.Context, id int32, in model.UpdateContentInput) (*model.ContentResponse, error) {
	var data struct {
		UpdateContent model.ContentResponse `json:"updateContent"`
	}
	err := a.Client.Do(ctx, Request{
		Query:         updateContentMutation,
		OperationName: "UpdateContent",
		Variables:     map[string]interface{}{"id": id, "input": in},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data.UpdateContent, nil
}

func (a *API) DeleteContent(ctx context.Context, id int32) (bool, error) {
	var data struct {
		DeleteContent bool `json:"deleteContent"`
	}
	err := a.Client.Do(ctx, Request{
		Query:         deleteContentMutation,
		OperationName: "DeleteContent",
		Variables:     map[string]interface{}{"id": id},
	}, &data)
	return data.DeleteContent, err
}
