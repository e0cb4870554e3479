package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"contentlib/internal/content/model"
)

var (
	ErrTitleRequired = errors.New("Title is required")
	ErrInvalidID     = errors.New("Invalid content ID")
)

// ParseContentID accepts only a positive base-10 integer that fits the
// GraphQL Int type.
func ParseContentID(raw string) (int32, error) {
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return int32(n), nil
}

// Form is the state of the create/edit form. Existing is nil in create mode.
type Form struct {
	Existing    *model.ContentResponse
	Title       string
	Description string
	TitleError  string
	SubmitError string
}

func NewForm(existing *model.ContentResponse) Form {
	f := Form{Existing: existing}
	if existing != nil {
		f.Title = existing.Title
		if existing.Description != nil {
			f.Description = *existing.Description
		}
	}
	return f
}

// FormFromRequest reads the submitted fields without trimming them, so a
// re-rendered form shows exactly what was entered.
func FormFromRequest(r *http.Request, existing *model.ContentResponse) Form {
	f := Form{Existing: existing}
	f.Title = r.PostFormValue("title")
	f.Description = r.PostFormValue("description")
	return f
}

func (f Form) IsEdit() bool {
	return f.Existing != nil
}

func (f Form) Heading() string {
	if f.IsEdit() {
		return "Edit Content"
	}
	return "Create New Content"
}

func (f Form) SubmitLabel() string {
	if f.IsEdit() {
		return "Update Content"
	}
	return "Create Content"
}

func (f Form) Action() string {
	if f.IsEdit() {
		return fmt.Sprintf("/edit/%d", f.Existing.ID)
	}
	return "/create"
}

func (f Form) CancelURL() string {
	if f.IsEdit() {
		return fmt.Sprintf("/content/%d", f.Existing.ID)
	}
	return "/"
}

// Validate sets TitleError and reports whether the form may be submitted.
func (f *Form) Validate() bool {
	f.TitleError = ""
	if strings.TrimSpace(f.Title) == "" {
		f.TitleError = ErrTitleRequired.Error()
		return false
	}
	return true
}

func (f Form) description() *string {
	d := strings.TrimSpace(f.Description)
	if d == "" {
		return nil
	}
	return &d
}

func (f Form) CreateInput() model.CreateContentInput {
	return model.CreateContentInput{
		Title:       strings.TrimSpace(f.Title),
		Description: f.description(),
	}
}

func (f Form) UpdateInput() model.UpdateContentInput {
	title := strings.TrimSpace(f.Title)
	return model.UpdateContentInput{
		Title:       &title,
		Description: f.description(),
	}
}
