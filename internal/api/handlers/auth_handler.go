package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/diary/internal/auth"
	"github.com/isdelr/diary/internal/models"
	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidCredentials = "Wrong email or password."
	msgDuplicateEmail     = "This email is already registered."
	msgPasswordTooLong    = "Password is too long, use at most 72 bytes."
)

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	users    services.UserServiceProvider
	events   services.EventServiceProvider
	sessions *auth.Manager
	views    Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, events services.EventServiceProvider, sessions *auth.Manager, views Renderer) *AuthHandler {
	return &AuthHandler{users: users, events: events, sessions: sessions, views: views}
}

type credentialsForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func readCredentials(r *http.Request) credentialsForm {
	return credentialsForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
}

// LoginPage renders the login form, or sends an active session to its cards.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Read(r); err == nil {
		http.Redirect(w, r, CardsPath, http.StatusFound)
		return
	}
	renderPage(w, r, h.views, http.StatusOK, web.PageLogin, web.Page{})
}

// Login checks the submitted credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Read(r); err == nil {
		http.Redirect(w, r, CardsPath, http.StatusSeeOther)
		return
	}

	form := readCredentials(r)
	page := web.Page{Form: web.Form{Email: form.Email}}
	if err := validate.Struct(form); err != nil {
		page.Error = msgMissingFields
		renderPage(w, r, h.views, http.StatusOK, web.PageLogin, page)
		return
	}

	user, err := h.users.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			serverError(w, r, err, "Failed to authenticate user")
			return
		}
		log.Warn().Str("email", form.Email).Msg("Failed authentication attempt")
		recordEvent(r.Context(), h.events, form.Email, models.EventLoginFailed, "Failed login attempt")
		page.Error = msgInvalidCredentials
		renderPage(w, r, h.views, http.StatusOK, web.PageLogin, page)
		return
	}

	if err := h.sessions.Issue(w, user); err != nil {
		serverError(w, r, err, "Failed to issue session")
		return
	}
	recordEvent(r.Context(), h.events, user.Email, models.EventLogin, "Logged in")
	log.Info().Int64("user_id", user.ID).Msg("User logged in")
	http.Redirect(w, r, CardsPath, http.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.views, http.StatusOK, web.PageRegister, web.Page{})
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := readCredentials(r)
	page := web.Page{Form: web.Form{Email: form.Email}}
	if err := validate.Struct(form); err != nil {
		page.Error = msgMissingFields
		renderPage(w, r, h.views, http.StatusOK, web.PageRegister, page)
		return
	}

	user, err := h.users.Register(r.Context(), form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			page.Error = msgDuplicateEmail
		case errors.Is(err, services.ErrPasswordTooLong):
			page.Error = msgPasswordTooLong
		default:
			serverError(w, r, err, "Failed to register user")
			return
		}
		renderPage(w, r, h.views, http.StatusOK, web.PageRegister, page)
		return
	}

	recordEvent(r.Context(), h.events, user.Email, models.EventAccountRegistered, "Account created")
	log.Info().Int64("user_id", user.ID).Msg("User registered")
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// Logout ends the session. Logging out without a session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := h.sessions.Read(r)
	h.sessions.Clear(w)
	if err == nil {
		recordEvent(r.Context(), h.events, claims.Email, models.EventLogout, "Logged out")
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}
