package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meur/moviedeck/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeService is an in-memory Service that assigns sequential ids.
type fakeService struct {
	mu sync.Mutex

	fetchResult []models.Movie
	fetchErr    error
	createErr   error
	deleteErr   error
	nextID      string
	createdIDs  int

	fetchCalls  int
	createCalls int
	deleteCalls []string
}

func (f *fakeService) FetchAll(ctx context.Context) ([]models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Movie(nil), f.fetchResult...), nil
}

func (f *fakeService) Create(ctx context.Context, draft models.MovieCreate) (models.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return models.Movie{}, f.createErr
	}
	id := f.nextID
	if id == "" {
		f.createdIDs++
		id = fmt.Sprintf("m%d", f.createdIDs)
	}
	f.nextID = ""
	return models.Movie{ID: id, Title: draft.Title, Genre: draft.Genre, Year: draft.Year, Rating: draft.Rating}, nil
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func assertUniqueIDs(t *testing.T, movies []models.Movie) {
	t.Helper()
	seen := map[string]bool{}
	for _, m := range movies {
		assert.False(t, seen[m.ID], "duplicate id %q", m.ID)
		seen[m.ID] = true
	}
}

func TestNewSeedsFallbackSet(t *testing.T) {
	c := New(&fakeService{})

	assert.Equal(t, FallbackSet(), c.Movies())
	_, ok := c.Hero()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), c.Snapshot().Revision)
}

func TestInitialize(t *testing.T) {
	dune := models.Movie{ID: "m1", Title: "Dune", Genre: "Sci-Fi", Year: 2021, Rating: 8.0}

	tests := []struct {
		name    string
		service *fakeService
		want    []models.Movie
		wantErr error
	}{
		{
			name:    "empty result keeps fallback",
			service: &fakeService{fetchResult: []models.Movie{}},
			want:    FallbackSet(),
		},
		{
			name:    "non-empty result replaces fallback",
			service: &fakeService{fetchResult: []models.Movie{dune}},
			want:    []models.Movie{dune},
		},
		{
			name:    "transport failure keeps fallback",
			service: &fakeService{fetchErr: errors.New("connection refused")},
			want:    FallbackSet(),
			wantErr: ErrFetchFailure,
		},
		{
			name:    "malformed payload keeps fallback",
			service: &fakeService{fetchErr: fmt.Errorf("%w: unexpected shape", ErrMalformedResponse)},
			want:    FallbackSet(),
			wantErr: ErrMalformedResponse,
		},
		{
			name: "duplicate ids collapse to first occurrence",
			service: &fakeService{fetchResult: []models.Movie{
				dune,
				{ID: "m2", Title: "Heat"},
				{ID: "m1", Title: "Dune (copy)"},
			}},
			want: []models.Movie{dune, {ID: "m2", Title: "Heat"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.service)

			err := c.Initialize(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrFetchFailure)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, c.Movies())
			assert.NotEmpty(t, c.Movies())
			assertUniqueIDs(t, c.Movies())
			assert.Equal(t, 1, tt.service.fetchCalls)
		})
	}
}

func TestInitializeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := New(&fakeService{fetchErr: errors.New("boom")}, WithLogger(zap.New(core)))

	require.Error(t, c.Initialize(context.Background()))

	entries := logs.FilterMessage("collection operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, opFetch, entries[0].ContextMap()["op"])
}

func TestStartDeliversResult(t *testing.T) {
	svc := &fakeService{fetchResult: []models.Movie{{ID: "m1", Title: "Dune"}}}
	c := New(svc)

	done := c.Start(context.Background())
	select {
	case err, ok := <-done:
		require.True(t, ok)
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start did not deliver a result")
	}
	_, open := <-done
	assert.False(t, open)
	assert.Equal(t, "m1", c.Movies()[0].ID)
}

func TestAddAppendsServerMovieAndDerivesHero(t *testing.T) {
	svc := &fakeService{nextID: "m9"}
	c := New(svc)
	before := c.Movies()

	movie, err := c.Add(context.Background(), models.MovieCreate{Title: "Wonder Woman", Genre: "Action", Year: 2017, Rating: 7.4})
	require.NoError(t, err)
	assert.Equal(t, "m9", movie.ID)

	movies := c.Movies()
	require.Len(t, movies, len(before)+1)
	assert.Equal(t, before, movies[:len(before)])
	assert.Equal(t, "m9", movies[len(movies)-1].ID)

	hero, ok := c.Hero()
	assert.True(t, ok)
	assert.Equal(t, "Wonder Woman", hero)
}

func TestAddUnknownTitleClearsHero(t *testing.T) {
	c := New(&fakeService{})

	_, err := c.Add(context.Background(), models.MovieCreate{Title: "Inception"})
	require.NoError(t, err)
	hero, ok := c.Hero()
	require.True(t, ok)
	assert.Equal(t, "Iron Man", hero)

	_, err = c.Add(context.Background(), models.MovieCreate{Title: "Unknown Film", Genre: "Drama", Year: 2020, Rating: 5})
	require.NoError(t, err)
	_, ok = c.Hero()
	assert.False(t, ok)
}

func TestHeroLookupIsExact(t *testing.T) {
	c := New(&fakeService{})

	_, err := c.Add(context.Background(), models.MovieCreate{Title: "wonder woman"})
	require.NoError(t, err)
	_, ok := c.Hero()
	assert.False(t, ok)
}

func TestAddFailureLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)
	_, err := c.Add(context.Background(), models.MovieCreate{Title: "The Dark Knight"})
	require.NoError(t, err)
	before := c.Snapshot()

	svc.createErr = errors.New("503 service unavailable")
	_, err = c.Add(context.Background(), models.MovieCreate{Title: "Wonder Woman"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailure)

	assert.Equal(t, before, c.Snapshot())
}

func TestAddRejectsInvalidDraftWithoutCallingService(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)

	_, err := c.Add(context.Background(), models.MovieCreate{Title: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailure)
	assert.ErrorIs(t, err, ErrInvalidDraft)
	assert.ErrorIs(t, err, models.ErrTitleRequired)
	assert.Zero(t, svc.createCalls)
	assert.Equal(t, FallbackSet(), c.Movies())
}

func TestAddAfterFetchAlreadyListedMovie(t *testing.T) {
	svc := &fakeService{
		fetchResult: []models.Movie{{ID: "m9", Title: "Wonder Woman"}},
		nextID:      "m9",
	}
	c := New(svc)
	require.NoError(t, c.Initialize(context.Background()))
	before := c.Snapshot().Revision

	movie, err := c.Add(context.Background(), models.MovieCreate{Title: "Wonder Woman", Genre: "Action", Year: 2017})
	require.NoError(t, err)
	assert.Equal(t, "m9", movie.ID)
	assert.Equal(t, 1, svc.createCalls)

	movies := c.Movies()
	require.Len(t, movies, 1)
	assert.Equal(t, "Action", movies[0].Genre)
	assertUniqueIDs(t, movies)

	hero, ok := c.Hero()
	assert.True(t, ok)
	assert.Equal(t, "Wonder Woman", hero)
	assert.Greater(t, c.Snapshot().Revision, before)
}

type blankIDService struct{ fakeService }

func (b *blankIDService) Create(ctx context.Context, draft models.MovieCreate) (models.Movie, error) {
	return models.Movie{Title: draft.Title}, nil
}

func TestAddRejectsMissingID(t *testing.T) {
	c := New(&blankIDService{})

	_, err := c.Add(context.Background(), models.MovieCreate{Title: "Heat"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCreateFailure)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Len(t, c.Movies(), 3)
}

func TestRemoveKeepsHero(t *testing.T) {
	svc := &fakeService{nextID: "m9"}
	c := New(svc)
	_, err := c.Add(context.Background(), models.MovieCreate{Title: "Wonder Woman", Genre: "Action", Year: 2017, Rating: 7.4})
	require.NoError(t, err)

	require.NoError(t, c.Remove(context.Background(), "m9"))

	for _, m := range c.Movies() {
		assert.NotEqual(t, "m9", m.ID)
	}
	hero, ok := c.Hero()
	assert.True(t, ok)
	assert.Equal(t, "Wonder Woman", hero)
}

func TestRemoveTwiceIsNoOp(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)

	require.NoError(t, c.Remove(context.Background(), "s2"))
	after := c.Snapshot()
	require.NoError(t, c.Remove(context.Background(), "s2"))

	assert.Equal(t, after, c.Snapshot())
	assert.Equal(t, []string{"s2", "s2"}, svc.deleteCalls)
}

func TestRemoveUnknownIDStillCallsService(t *testing.T) {
	svc := &fakeService{}
	c := New(svc)

	require.NoError(t, c.Remove(context.Background(), "missing"))
	assert.Equal(t, []string{"missing"}, svc.deleteCalls)
	assert.Equal(t, FallbackSet(), c.Movies())
}

func TestRemoveFailureLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{deleteErr: errors.New("404 not found")}
	c := New(svc)

	err := c.Remove(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeleteFailure)
	assert.Equal(t, FallbackSet(), c.Movies())
}

func TestAddThenRemoveRoundTrips(t *testing.T) {
	c := New(&fakeService{})
	before := c.Movies()

	movie, err := c.Add(context.Background(), models.MovieCreate{Title: "Heat", Genre: "Crime", Year: 1995, Rating: 8.3})
	require.NoError(t, err)
	require.NoError(t, c.Remove(context.Background(), movie.ID))

	assert.Equal(t, before, c.Movies())
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(&fakeService{})

	st := c.Snapshot()
	st.Movies[0].Title = "changed"

	assert.Equal(t, "The Dark Knight", c.Movies()[0].Title)
}

func TestConcurrentOperationsKeepIDsUnique(t *testing.T) {
	c := New(&fakeService{fetchResult: []models.Movie{{ID: "r1", Title: "Remote"}}})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = c.Add(context.Background(), models.MovieCreate{Title: "Heat"})
		}()
		go func() {
			defer wg.Done()
			_ = c.Remove(context.Background(), "m1")
		}()
		go func() {
			defer wg.Done()
			_ = c.Initialize(context.Background())
		}()
	}
	wg.Wait()

	assertUniqueIDs(t, c.Movies())
	assert.NotEmpty(t, c.Movies())
}

func TestSubscribeReceivesLatestState(t *testing.T) {
	c := New(&fakeService{nextID: "m9"})
	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	initial := <-states
	assert.Equal(t, FallbackSet(), initial.Movies)

	_, err := c.Add(context.Background(), models.MovieCreate{Title: "Wonder Woman"})
	require.NoError(t, err)

	st := <-states
	assert.Equal(t, uint64(1), st.Revision)
	assert.True(t, st.HasHero)
	assert.Equal(t, "Wonder Woman", st.Hero)
	assert.Len(t, st.Movies, 4)
}

func TestSubscribeDropsIntermediateStates(t *testing.T) {
	c := New(&fakeService{})
	states, unsubscribe := c.Subscribe()
	defer unsubscribe()
	<-states

	for i := 0; i < 5; i++ {
		_, err := c.Add(context.Background(), models.MovieCreate{Title: "Heat"})
		require.NoError(t, err)
	}

	st := <-states
	assert.Equal(t, uint64(5), st.Revision)
	assert.Len(t, st.Movies, 8)
}

func TestUnsubscribeAndCloseCloseChannels(t *testing.T) {
	c := New(&fakeService{})

	first, unsubscribe := c.Subscribe()
	<-first
	unsubscribe()
	unsubscribe()
	_, open := <-first
	assert.False(t, open)

	second, _ := c.Subscribe()
	<-second
	c.Close()
	_, open = <-second
	assert.False(t, open)

	late, _ := c.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestWithFallbackAndHeroMap(t *testing.T) {
	seed := []models.Movie{{ID: "x1", Title: "Heat"}}
	heroes := NewHeroMap(map[string]string{"Heat": "Neil"})
	c := New(&fakeService{}, WithFallback(seed), WithHeroMap(heroes))

	assert.Equal(t, seed, c.Movies())
	_, err := c.Add(context.Background(), models.MovieCreate{Title: "Heat"})
	require.NoError(t, err)
	hero, ok := c.Hero()
	assert.True(t, ok)
	assert.Equal(t, "Neil", hero)

	empty := New(&fakeService{}, WithFallback(nil))
	assert.Equal(t, FallbackSet(), empty.Movies())
}
