package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/diary/internal/auth"
	"github.com/isdelr/diary/internal/models"
	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
	"github.com/rs/zerolog/log"
)

// CardHandler serves the authenticated card pages. It must be mounted
// behind auth.Manager.RequireSession.
type CardHandler struct {
	cards  services.CardServiceProvider
	events services.EventServiceProvider
	views  Renderer
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards services.CardServiceProvider, events services.EventServiceProvider, views Renderer) *CardHandler {
	return &CardHandler{cards: cards, events: events, views: views}
}

type cardForm struct {
	Title    string `validate:"required"`
	Subtitle string `validate:"required"`
	Text     string `validate:"required"`
}

// sessionEmail returns the authenticated email, redirecting to login when
// the request somehow reached the handler without a session.
func sessionEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return "", false
	}
	return claims.Email, true
}

// List renders the cards of the session user.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListCards(r.Context(), email)
	if err != nil {
		serverError(w, r, err, "Failed to list cards")
		return
	}
	renderPage(w, r, h.views, http.StatusOK, web.PageCards, web.Page{Email: email, Cards: cards})
}

// Get renders a single card. Missing and foreign cards both go back to the list.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, CardsPath, http.StatusFound)
		return
	}

	card, err := h.cards.GetCard(r.Context(), id, email)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Debug().Int64("card_id", id).Msg("Card not visible to session")
			http.Redirect(w, r, CardsPath, http.StatusFound)
			return
		}
		serverError(w, r, err, "Failed to get card")
		return
	}
	renderPage(w, r, h.views, http.StatusOK, web.PageCard, web.Page{Email: email, Card: card})
}

// New renders the card creation form.
func (h *CardHandler) New(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}
	renderPage(w, r, h.views, http.StatusOK, web.PageCreateCard, web.Page{Email: email})
}

// Create stores a card owned by the session user. Any owner field in the
// form is ignored.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := sessionEmail(w, r)
	if !ok {
		return
	}

	form := cardForm{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		Text:     r.PostFormValue("text"),
	}
	if err := validate.Struct(form); err != nil {
		renderPage(w, r, h.views, http.StatusOK, web.PageCreateCard, web.Page{
			Email: email,
			Error: msgMissingFields,
			Form:  web.Form{Title: form.Title, Subtitle: form.Subtitle, Text: form.Text},
		})
		return
	}

	card, err := h.cards.CreateCard(r.Context(), email, form.Title, form.Subtitle, form.Text)
	if err != nil {
		serverError(w, r, err, "Failed to create card")
		return
	}

	recordEvent(r.Context(), h.events, email, models.EventCardCreated, "Created card \""+card.Title+"\"")
	http.Redirect(w, r, CardsPath, http.StatusSeeOther)
}
