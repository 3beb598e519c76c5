package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meur/moviedeck/internal/models"
)

// handleListMovies returns the whole collection in the container shape
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.store.ListMovies()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch movies")
		return
	}

	respondJSON(w, http.StatusOK, models.MovieList{
		Movies:     movies,
		TotalCount: len(movies),
	})
}

// handleGetMovie returns a single movie by ID
func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	movie, err := s.store.GetMovie(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch movie")
		return
	}
	if movie == nil {
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}

	respondJSON(w, http.StatusOK, movie)
}

// handleCreateMovie creates a new movie and returns it with its assigned ID
func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.MovieCreate
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := s.store.CreateMovie(&req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create movie")
		return
	}

	respondJSON(w, http.StatusCreated, movie)
}

// handleDeleteMovie deletes a movie by ID
func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := s.store.DeleteMovie(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete movie")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Movie not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
