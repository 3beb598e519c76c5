package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/moviedeck/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_created ON movies(created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// ListMovies returns every movie in insertion order
func (s *Store) ListMovies() ([]models.Movie, error) {
	rows, err := s.db.Query(`
		SELECT id, title, genre, year, rating, created_at
		FROM movies ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Year, &m.Rating, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetMovie returns a movie by ID, or nil when it does not exist
func (s *Store) GetMovie(id string) (*models.Movie, error) {
	var m models.Movie
	err := s.db.QueryRow(`
		SELECT id, title, genre, year, rating, created_at
		FROM movies WHERE id = ?
	`, id).Scan(&m.ID, &m.Title, &m.Genre, &m.Year, &m.Rating, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMovie stores a draft under a freshly generated ID
func (s *Store) CreateMovie(draft *models.MovieCreate) (*models.Movie, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.Exec(`
		INSERT INTO movies (id, title, genre, year, rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, draft.Title, draft.Genre, draft.Year, draft.Rating, now)
	if err != nil {
		return nil, err
	}

	return &models.Movie{
		ID:        id,
		Title:     draft.Title,
		Genre:     draft.Genre,
		Year:      draft.Year,
		Rating:    draft.Rating,
		CreatedAt: now,
	}, nil
}

// BulkCreateMovies creates multiple movies in a transaction, keeping their IDs
func (s *Store) BulkCreateMovies(movies []models.Movie) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO movies (id, title, genre, year, rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, m := range movies {
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		created := m.CreatedAt
		if created.IsZero() {
			// keep file order stable when every row shares the same timestamp
			created = now.Add(time.Duration(i) * time.Microsecond)
		}
		if _, err := stmt.Exec(m.ID, m.Title, m.Genre, m.Year, m.Rating, created); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteMovie removes a movie by ID and reports whether a row was deleted
func (s *Store) DeleteMovie(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
