package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/apperr"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/templates"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc      *linksvc.Service
	registry *templates.Registry
	store    *activity.Store
}

// NewHandler creates a new Handler.
func NewHandler(svc *linksvc.Service, registry *templates.Registry, store *activity.Store) *Handler {
	return &Handler{svc: svc, registry: registry, store: store}
}

// decodeRecord reads the request body into the record type matching the
// navigation type of the URL.
func decodeRecord(nav models.NavType, r *http.Request) (models.Record, error) {
	var rec models.Record
	switch nav {
	case models.NavPerson:
		rec = &models.Person{}
	case models.NavFamily:
		rec = &models.Family{}
	case models.NavPlace:
		rec = &models.PlaceRecord{}
	case models.NavSource:
		rec = &models.SourceRecord{}
	default:
		return nil, fmt.Errorf("unsupported navigation type %q: %w", nav, apperr.ErrInvalid)
	}
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", apperr.ErrInvalid)
	}
	return rec, nil
}

// RenderLinks handles POST /api/links/{navtype}.
//
//	@Summary		Render search links for the posted record
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			navtype	path		string	true	"Navigation type"	Enums(people, families, places, sources)
//	@Param			body	body		models.Person	true	"Active record"
//	@Success		200		{object}	LinksResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/{navtype} [post]
func (h *Handler) RenderLinks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	nav, ok := models.ParseNavType(chi.URLParam(r, "navtype"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown navigation type"))
		return
	}
	rec, err := decodeRecord(nav, r)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalid) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	links, err := h.svc.LinksFor(rec)
	if err != nil {
		slog.Error("render links failed",
			slog.String("navtype", string(nav)),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if links == nil {
		links = []models.LinkRow{}
	}
	writeJSON(w, http.StatusOK, LinksResponse{Links: links})
}

// ListTemplates handles GET /api/templates.
//
//	@Summary		List template files and their enabled state
//	@Tags			templates
//	@Produce		json
//	@Success		200	{object}	TemplatesResponse
//	@Security		BearerAuth
//	@Router			/templates [get]
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	files, enabled, err := h.registry.Files()
	if err != nil {
		slog.Error("list templates failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if files == nil {
		files = []templates.File{}
	}
	if enabled == nil {
		enabled = []string{}
	}
	writeJSON(w, http.StatusOK, TemplatesResponse{Files: files, Enabled: enabled})
}

// MarkVisited handles POST /api/activity/visited.
//
//	@Summary		Mark a link as visited
//	@Tags			activity
//	@Accept			json
//	@Param			body	body	MarkRequest	true	"Link hash"
//	@Success		204		"Marked"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity/visited [post]
func (h *Handler) MarkVisited(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.store.MarkVisited)
}

// MarkSaved handles POST /api/activity/saved.
//
//	@Summary		Mark a link as saved
//	@Tags			activity
//	@Accept			json
//	@Param			body	body	MarkRequest	true	"Link hash"
//	@Success		204		"Marked"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/activity/saved [post]
func (h *Handler) MarkSaved(w http.ResponseWriter, r *http.Request) {
	h.mark(w, r, h.store.MarkSaved)
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request, apply func(string) error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URLHash == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("url_hash is required"))
		return
	}
	if err := apply(req.URLHash); err != nil {
		slog.Error("mark link failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HideLink handles POST /api/links/hide.
//
//	@Summary		Hide a template for one record or for all
//	@Tags			links
//	@Accept			json
//	@Param			body	body	HideRequest	true	"Template hash and optional record scope"
//	@Success		204		"Hidden"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/hide [post]
func (h *Handler) HideLink(w http.ResponseWriter, r *http.Request) {
	h.hide(w, r, h.store.HideLink)
}

// UnhideLink handles POST /api/links/unhide.
//
//	@Summary		Remove a hide entry
//	@Tags			links
//	@Accept			json
//	@Param			body	body	HideRequest	true	"Template hash and optional record scope"
//	@Success		204		"Visible again"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links/unhide [post]
func (h *Handler) UnhideLink(w http.ResponseWriter, r *http.Request) {
	h.hide(w, r, h.store.UnhideLink)
}

func (h *Handler) hide(w http.ResponseWriter, r *http.Request, apply func(recordID, hash string) error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req HideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PatternHash == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("pattern_hash is required"))
		return
	}
	if err := apply(req.RecordID, req.PatternHash); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("hash is not hidden"))
			return
		}
		slog.Error("hide link failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Suggestions handles GET /api/suggestions.
//
//	@Summary		Fetch site suggestions not covered by enabled templates
//	@Tags			suggestions
//	@Produce		json
//	@Success		200	{object}	SuggestionsResponse
//	@Security		BearerAuth
//	@Router			/suggestions [get]
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.Suggestions(r.Context())
	if err != nil && !errors.Is(err, apperr.ErrDisabled) {
		slog.Error("suggestions failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	// An unconfigured provider reads as "nothing to suggest".
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

// SkipDomain handles POST /api/suggestions/skip.
//
//	@Summary		Mark a suggestion domain as irrelevant
//	@Tags			suggestions
//	@Accept			json
//	@Param			body	body	DomainRequest	true	"Domain to skip"
//	@Success		204		"Skipped"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/suggestions/skip [post]
func (h *Handler) SkipDomain(w http.ResponseWriter, r *http.Request) {
	h.domain(w, r, h.store.SkipDomain)
}

// UnskipDomain handles POST /api/suggestions/unskip.
//
//	@Summary		Make a skipped domain eligible again
//	@Tags			suggestions
//	@Accept			json
//	@Param			body	body	DomainRequest	true	"Domain to unskip"
//	@Success		204		"Unskipped"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/suggestions/unskip [post]
func (h *Handler) UnskipDomain(w http.ResponseWriter, r *http.Request) {
	h.domain(w, r, h.store.UnskipDomain)
}

func (h *Handler) domain(w http.ResponseWriter, r *http.Request, apply func(string) error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req DomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("domain is required"))
		return
	}
	if err := apply(req.Domain); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("domain is not skipped"))
			return
		}
		slog.Error("skip domain failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
