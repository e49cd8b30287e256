// Package presentation defines the persistent demo-mode models. Field names
// and JSON encodings mirror the records the dashboard already keeps in
// localStorage, so the service can interoperate with existing demo data.
package presentation

import "time"

// Status is the presentation lifecycle state. Transitions are caller-driven:
// draft → published → archived, and any state may be archived directly.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change from s to next is allowed.
// Staying in the same state is always allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch {
	case next == StatusArchived:
		return true
	case s == StatusDraft && next == StatusPublished:
		return true
	}
	return false
}

// Metadata is the lightweight summary record kept for every presentation.
// The whole collection lives as one JSON array under a single key.
type Metadata struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	ThumbnailURL      string     `json:"thumbnail_url,omitempty"`
	Status            Status     `json:"status"`
	Theme             string     `json:"theme,omitempty"`
	TotalSlides       int        `json:"total_slides"`
	EstimatedDuration int        `json:"estimated_duration,omitempty"`
	Tags              []string   `json:"tags"`
	IsPublic          bool       `json:"is_public"`
	ViewCount         int        `json:"view_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastPresentedAt   *time.Time `json:"last_presented_at,omitempty"`
}

// Slide is one slide of a presentation document.
type Slide struct {
	Title    string   `json:"title"`
	Content  []string `json:"content"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// Document is the full presentation content, stored one-per-presentation
// under its own key.
type Document struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// DocumentPatch carries the fields an update may change. Nil means "leave
// untouched"; a provided Slides value replaces the whole sequence.
type DocumentPatch struct {
	Title       *string
	Slides      *[]Slide
	Description *string
	Status      *Status
	IsPublic    *bool
	Theme       *string
}
