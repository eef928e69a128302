package api

import (
	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/templates"
)

// LinksResponse wraps the rendered link rows for one record activation.
type LinksResponse struct {
	Links []models.LinkRow `json:"links" validate:"required"`
}

// TemplatesResponse lists the template files on disk and which are enabled.
type TemplatesResponse struct {
	Files   []templates.File `json:"files" validate:"required"`
	Enabled []string         `json:"enabled" validate:"required"`
}

// MarkRequest is the request body for marking a link visited or saved.
type MarkRequest struct {
	URLHash string `json:"url_hash" example:"a1b2c3d4e5f60718" validate:"required"`
}

// HideRequest is the request body for hiding a template. An empty record_id
// hides the template for every record.
type HideRequest struct {
	RecordID    string `json:"record_id,omitempty" example:"I0001"`
	PatternHash string `json:"pattern_hash" example:"a1b2c3d4e5f60718" validate:"required"`
}

// SuggestionsResponse wraps the filtered provider suggestions.
type SuggestionsResponse struct {
	Suggestions []models.Suggestion `json:"suggestions" validate:"required"`
}

// DomainRequest is the request body for skipping or unskipping a
// suggestion domain.
type DomainRequest struct {
	Domain string `json:"domain" example:"familysearch.org" validate:"required"`
}
