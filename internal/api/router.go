package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lunyk/kindred/internal/activity"
	"github.com/lunyk/kindred/internal/linksvc"
	"github.com/lunyk/kindred/internal/templates"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *linksvc.Service, registry *templates.Registry, store *activity.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, registry, store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Link rendering and template hiding.
	r.Post("/links/hide", h.HideLink)
	r.Post("/links/unhide", h.UnhideLink)
	r.Post("/links/{navtype}", h.RenderLinks)

	// Template files.
	r.Get("/templates", h.ListTemplates)

	// Link activity.
	r.Post("/activity/visited", h.MarkVisited)
	r.Post("/activity/saved", h.MarkSaved)

	// Suggestions.
	r.Get("/suggestions", h.Suggestions)
	r.Post("/suggestions/skip", h.SkipDomain)
	r.Post("/suggestions/unskip", h.UnskipDomain)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
