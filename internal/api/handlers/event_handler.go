package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
)

// EventHandler serves the account activity page.
type EventHandler struct {
	service services.EventServiceProvider
	views   Renderer
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider, views Renderer) *EventHandler {
	return &EventHandler{service: service, views: views}
}

// GetRecent renders recent activity of the session user.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	// Recent applies its own default for a missing or non-positive limit.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.service.Recent(r.Context(), email, limit)
	if err != nil {
		serverError(w, r, err, "Failed to retrieve events")
		return
	}
	renderPage(w, r, h.views, http.StatusOK, web.PageActivity, web.Page{Email: email, Events: events})
}
