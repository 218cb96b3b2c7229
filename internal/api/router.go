package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/diary/internal/api/handlers"
	"github.com/isdelr/diary/internal/auth"
	"github.com/isdelr/diary/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	sessions *auth.Manager,
	views handlers.Renderer,
	userService services.UserServiceProvider,
	cardService services.CardServiceProvider,
	eventService services.EventServiceProvider,
	db handlers.Pinger,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, eventService, sessions, views)
	cardHandler := handlers.NewCardHandler(cardService, eventService, views)
	eventHandler := handlers.NewEventHandler(eventService, views)
	healthHandler := handlers.NewHealthHandler(db)

	r.Get("/healthz", healthHandler.Check)

	// Public entry points
	r.Get(handlers.LoginPath, authHandler.LoginPage)
	r.Post(handlers.LoginPath, authHandler.Login)
	r.Get(handlers.RegisterPath, authHandler.RegisterPage)
	r.Post(handlers.RegisterPath, authHandler.Register)
	r.Get("/logout", authHandler.Logout)

	// Routes requiring a session
	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireSession(handlers.LoginPath))

		r.Route(handlers.CardsPath, func(r chi.Router) {
			r.Get("/", cardHandler.List)
			r.Post("/", cardHandler.Create)
			r.Get("/new", cardHandler.New)
			r.Get("/{id}", cardHandler.Get)
		})
		r.Get("/activity", eventHandler.GetRecent)
	})

	// Paths of the first version of the diary
	r.Get("/reg", redirectTo(handlers.RegisterPath))
	r.Get("/index", redirectTo(handlers.CardsPath))
	r.Get("/create", redirectTo(handlers.NewCardPath))
	r.Get("/card/{id}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, handlers.CardsPath+"/"+chi.URLParam(r, "id"), http.StatusMovedPermanently)
	})

	return r
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusMovedPermanently)
	}
}
