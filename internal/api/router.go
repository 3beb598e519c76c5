package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/moviedeck/internal/storage"
)

// DefaultAllowedOrigins covers local frontend dev servers
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// Server holds the HTTP server dependencies
type Server struct {
	store          *storage.Store
	router         chi.Router
	allowedOrigins []string
}

// New creates a new API server, falling back to the local origins when none are given
func New(store *storage.Store, allowedOrigins ...string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	s := &Server{
		store:          store,
		router:         chi.NewRouter(),
		allowedOrigins: allowedOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the underlying router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/movies", s.handleListMovies)
		r.Post("/movies", s.handleCreateMovie)
		r.Get("/movies/{id}", s.handleGetMovie)
		r.Delete("/movies/{id}", s.handleDeleteMovie)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
