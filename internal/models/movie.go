package models

import (
	"errors"
	"strings"
	"time"
)

// Movie represents a single entry in the movie collection
type Movie struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Genre     string    `json:"genre"`
	Year      int       `json:"year"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// MovieCreate is the request body for creating a movie; the service assigns the ID
type MovieCreate struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
}

// ErrTitleRequired is returned when a draft has no usable title
var ErrTitleRequired = errors.New("title is required")

// Validate checks the minimum structure a draft needs before it is sent
func (m MovieCreate) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// MovieList is the container shape returned by the list endpoint
type MovieList struct {
	Movies     []Movie `json:"movies"`
	TotalCount int     `json:"total_count"`
}
