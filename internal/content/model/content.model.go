package model

import "time"

// TimestampLayout is the ISO-8601 form used for timestamps on the wire,
// always rendered in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Content is the stored record.
type Content struct {
	ID          int
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContent holds the caller supplied fields of a record to insert.
type NewContent struct {
	Title       string
	Description *string
}

// Patch lists the fields an update changes. A nil Title leaves the title
// untouched. Description is only written when SetDescription is true, and a
// nil Description then clears the column.
type Patch struct {
	Title          *string
	SetDescription bool
	Description    *string
}

// ContentResponse is the wire shape of a record.
type ContentResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type CreateContentInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

type UpdateContentInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ToResponse maps a stored record onto its wire shape.
func ToResponse(c Content) ContentResponse {
	return ContentResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   FormatTimestamp(c.CreatedAt),
		UpdatedAt:   FormatTimestamp(c.UpdatedAt),
	}
}

// Apply returns a copy of c with the patch applied. It does not touch
// the timestamps.
func (p Patch) Apply(c Content) Content {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.SetDescription {
		if p.Description == nil {
			c.Description = nil
		} else {
			d := *p.Description
			c.Description = &d
		}
	}
	return c
}
