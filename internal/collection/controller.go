package collection

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/meur/moviedeck/internal/models"
)

const (
	opFetch  = "fetch"
	opCreate = "create"
	opDelete = "delete"
)

// Service is the remote side of the collection.
type Service interface {
	FetchAll(ctx context.Context) ([]models.Movie, error)
	Create(ctx context.Context, draft models.MovieCreate) (models.Movie, error)
	Delete(ctx context.Context, id string) error
}

// State is a point-in-time copy of the controller's state.
type State struct {
	Movies   []models.Movie
	Hero     string
	HasHero  bool
	Revision uint64
}

// Controller owns the movie list and the derived hero. It is safe for
// concurrent use; no lock is held while a remote call is in flight, so
// concurrent intents apply in the order their remote calls resolve.
type Controller struct {
	service Service
	logger  *zap.Logger
	heroes  HeroMap

	mu       sync.RWMutex
	movies   []models.Movie
	hero     string
	hasHero  bool
	revision uint64
	subs     map[int]chan State
	nextSub  int
	closed   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used to report failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFallback replaces the seed list. An empty list is ignored.
func WithFallback(movies []models.Movie) Option {
	return func(c *Controller) {
		if len(movies) > 0 {
			c.movies = uniqueByID(movies)
		}
	}
}

// WithHeroMap replaces the built-in hero table.
func WithHeroMap(heroes HeroMap) Option {
	return func(c *Controller) {
		c.heroes = heroes
	}
}

// New creates a Controller seeded with the fallback set.
func New(service Service, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		logger:  zap.NewNop(),
		heroes:  DefaultHeroes(),
		movies:  FallbackSet(),
		subs:    make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize fetches the remote collection once. A non-empty result replaces
// the current list; an empty result keeps it. Failures keep it too.
func (c *Controller) Initialize(ctx context.Context) error {
	movies, err := c.service.FetchAll(ctx)
	if err != nil {
		return c.fail(opFetch, ErrFetchFailure, err)
	}
	if len(movies) == 0 {
		c.logger.Info("remote collection is empty, keeping current movies")
		return nil
	}

	unique := uniqueByID(movies)
	if dropped := len(movies) - len(unique); dropped > 0 {
		c.logger.Warn("dropped movies with duplicate ids", zap.Int("dropped", dropped))
	}

	c.mu.Lock()
	c.movies = unique
	c.commitLocked()
	c.mu.Unlock()

	c.logger.Debug("collection replaced from remote", zap.Int("count", len(unique)))
	return nil
}

// Start runs Initialize on its own goroutine. The returned channel receives
// the result and is then closed.
func (c *Controller) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- c.Initialize(ctx)
	}()
	return done
}

// Add creates draft remotely and appends the movie the service returns. If a
// movie with the same id is already listed it is replaced in place.
func (c *Controller) Add(ctx context.Context, draft models.MovieCreate) (models.Movie, error) {
	if err := draft.Validate(); err != nil {
		return models.Movie{}, c.fail(opCreate, ErrCreateFailure, fmt.Errorf("%w: %w", ErrInvalidDraft, err))
	}

	movie, err := c.service.Create(ctx, draft)
	if err != nil {
		return models.Movie{}, c.fail(opCreate, ErrCreateFailure, err)
	}
	if movie.ID == "" {
		return models.Movie{}, c.fail(opCreate, ErrCreateFailure, fmt.Errorf("%w: created movie has no id", ErrMalformedResponse))
	}

	c.mu.Lock()
	// A fetch that resolved first may already hold the created movie.
	if i := indexOf(c.movies, movie.ID); i >= 0 {
		c.movies[i] = movie
	} else {
		c.movies = append(c.movies, movie)
	}
	c.hero, c.hasHero = c.heroes.Lookup(movie.Title)
	c.commitLocked()
	c.mu.Unlock()

	c.logger.Debug("movie added", zap.String("id", movie.ID), zap.String("title", movie.Title))
	return movie, nil
}

// Remove deletes id remotely and drops it from the list. The hero is left alone.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.service.Delete(ctx, id); err != nil {
		return c.fail(opDelete, ErrDeleteFailure, err)
	}

	c.mu.Lock()
	kept := make([]models.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	removed := len(c.movies) - len(kept)
	if removed > 0 {
		c.movies = kept
		c.commitLocked()
	}
	c.mu.Unlock()

	c.logger.Debug("movie removed", zap.String("id", id), zap.Int("local_matches", removed))
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Movies returns a copy of the current list.
func (c *Controller) Movies() []models.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Movie(nil), c.movies...)
}

// Hero returns the derived hero, if one is set.
func (c *Controller) Hero() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hero, c.hasHero
}

// Subscribe returns a channel that always holds the most recent state. The
// current state is delivered immediately. Slow readers only ever miss
// intermediate states. Call the returned func to unsubscribe.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
}

// Close releases every subscriber. Operations keep working afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// commitLocked bumps the revision and publishes the new state. c.mu must be held.
func (c *Controller) commitLocked() {
	c.revision++
	if len(c.subs) == 0 {
		return
	}
	st := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

func (c *Controller) snapshotLocked() State {
	return State{
		Movies:   append([]models.Movie(nil), c.movies...),
		Hero:     c.hero,
		HasHero:  c.hasHero,
		Revision: c.revision,
	}
}

func (c *Controller) fail(op string, kind, cause error) error {
	err := fmt.Errorf("%w: %w", kind, cause)
	c.logger.Warn("collection operation failed", zap.String("op", op), zap.Error(err))
	return err
}

func indexOf(movies []models.Movie, id string) int {
	for i, m := range movies {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// uniqueByID copies movies, keeping the first occurrence of each ID.
func uniqueByID(movies []models.Movie) []models.Movie {
	seen := make(map[string]struct{}, len(movies))
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
