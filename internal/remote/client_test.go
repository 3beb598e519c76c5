package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/moviedeck/internal/collection"
	"github.com/meur/moviedeck/internal/models"
	"github.com/meur/moviedeck/internal/remote"
)

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := remote.New(server.URL + "/api/")
	require.NoError(t, err)
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com", "::not a url"} {
		_, err := remote.New(raw)
		assert.Error(t, err, raw)
	}

	_, err := remote.New("https://example.com/api", remote.WithTimeout(time.Second), remote.WithHTTPClient(nil))
	assert.NoError(t, err)
}

func TestFetchAllShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		want      []models.Movie
		malformed bool
	}{
		{
			name: "bare array",
			body: `[{"_id":"m1","title":"Dune","genre":"Sci-Fi","year":2021,"rating":8.0}]`,
			want: []models.Movie{{ID: "m1", Title: "Dune", Genre: "Sci-Fi", Year: 2021, Rating: 8.0}},
		},
		{
			name: "container object",
			body: `{"movies":[{"_id":"m1","title":"Dune","genre":"Sci-Fi","year":2021,"rating":8.0}],"total_count":1}`,
			want: []models.Movie{{ID: "m1", Title: "Dune", Genre: "Sci-Fi", Year: 2021, Rating: 8.0}},
		},
		{
			name: "empty array",
			body: `[]`,
			want: []models.Movie{},
		},
		{
			name: "container with empty movies",
			body: `{"movies":[]}`,
			want: []models.Movie{},
		},
		{name: "object without movies", body: `{"items":[]}`, malformed: true},
		{name: "null movies", body: `{"movies":null}`, malformed: true},
		{name: "string payload", body: `"hello"`, malformed: true},
		{name: "empty body", body: ``, malformed: true},
		{name: "broken json", body: `[{"_id":`, malformed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/movies", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			movies, err := client.FetchAll(context.Background())
			if tt.malformed {
				require.Error(t, err)
				assert.ErrorIs(t, err, collection.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, movies)
		})
	}
}

func TestFetchAllHTTPError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to fetch movies"}`))
	})

	_, err := client.FetchAll(context.Background())
	require.Error(t, err)

	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "Failed to fetch movies", statusErr.Message)
}

func TestCreateSendsDraft(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft models.MovieCreate
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Wonder Woman", draft.Title)
		assert.Equal(t, 2017, draft.Year)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Movie{ID: "m9", Title: draft.Title, Genre: draft.Genre, Year: draft.Year, Rating: draft.Rating})
	})

	movie, err := client.Create(context.Background(), models.MovieCreate{Title: "Wonder Woman", Genre: "Action", Year: 2017, Rating: 7.4})
	require.NoError(t, err)
	assert.Equal(t, "m9", movie.ID)
	assert.InDelta(t, 7.4, movie.Rating, 0.001)
}

func TestCreateMalformedResponse(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Create(context.Background(), models.MovieCreate{Title: "Heat"})
	assert.ErrorIs(t, err, collection.ErrMalformedResponse)
}

func TestDelete(t *testing.T) {
	var gotPath string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
		if r.URL.Path == "/api/movies/missing" || r.URL.Path == "/api/movies/ " {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Movie not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"deleted"}`))
	})

	require.NoError(t, client.Delete(context.Background(), "a b"))
	assert.Equal(t, "/api/movies/a%20b", gotPath)

	err := client.Delete(context.Background(), "missing")
	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	err = client.Delete(context.Background(), " ")
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "/api/movies/%20", gotPath)
}

func TestRequestHonoursContext(t *testing.T) {
	release := make(chan struct{})
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
