package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator"
	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
	"github.com/rs/zerolog/log"
)

// Paths the handlers redirect to.
const (
	LoginPath    = "/"
	RegisterPath = "/register"
	CardsPath    = "/cards"
	NewCardPath  = "/cards/new"
)

const msgMissingFields = "Please fill in all fields."

var validate = validator.New()

// Renderer renders HTML views.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}

// renderPage writes page and turns a template failure into a 500.
func renderPage(w http.ResponseWriter, r *http.Request, views Renderer, status int, page string, data web.Page) {
	if err := views.Render(w, status, page, data); err != nil {
		serverError(w, r, err, "Failed to render page")
	}
}

func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.Error().Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg(msg)
	http.Error(w, "Something went wrong, please try again later.", http.StatusInternalServerError)
}

// recordEvent logs an activity entry. Failures do not abort the request.
func recordEvent(ctx context.Context, events services.EventServiceProvider, email, eventType, message string) {
	if err := events.Record(ctx, email, eventType, message); err != nil {
		log.Warn().Err(err).Str("email", email).Str("type", eventType).Msg("Failed to record event")
	}
}
