package collection

import "github.com/meur/moviedeck/internal/models"

// FallbackSet returns the sample movies shown until the remote service
// provides a usable list. Each call returns a fresh slice.
func FallbackSet() []models.Movie {
	return []models.Movie{
		{ID: "s1", Title: "The Dark Knight", Genre: "Action", Year: 2008, Rating: 9.0},
		{ID: "s2", Title: "Inception", Genre: "Sci-Fi", Year: 2010, Rating: 8.8},
		{ID: "s3", Title: "Daagdi Chawl", Genre: "Action", Year: 2014, Rating: 8.6},
	}
}
