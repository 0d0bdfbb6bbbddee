package recommendations_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/shared"
	tu "github.com/desertthunder/singme/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyRecorder struct {
	votes     []models.Direction
	evictions int
	picks     []recommendations.Bucket
	fallbacks int
}

func (s *spyRecorder) Vote(d models.Direction) { s.votes = append(s.votes, d) }
func (s *spyRecorder) Evicted()                { s.evictions++ }
func (s *spyRecorder) RandomPick(b recommendations.Bucket, fallback bool) {
	s.picks = append(s.picks, b)
	if fallback {
		s.fallbacks++
	}
}

// evictingStore removes a record right after its score changes, as a competing downvote would.
type evictingStore struct {
	*tu.MemoryStore
}

func (s *evictingStore) UpdateScore(ctx context.Context, id int64, direction models.Direction) (*models.Recommendation, error) {
	rec, err := s.MemoryStore.UpdateScore(ctx, id, direction)
	if err != nil {
		return nil, err
	}
	return rec, s.MemoryStore.Remove(ctx, id)
}

func newEngine(store recommendations.Store, draws ...float64) *recommendations.Engine {
	return recommendations.NewEngine(store, recommendations.EngineOpts{Random: tu.NewSequenceRandom(draws...)})
}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with zero score", func(t *testing.T) {
		store := tu.NewMockStore()
		engine := newEngine(store)

		rec, err := engine.Insert(ctx, models.CreateRecommendation{Name: "Asa Branca", YouTubeLink: "https://youtu.be/a"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.ID)
		assert.Equal(t, "Asa Branca", rec.Name)
		assert.Zero(t, rec.Score)
		assert.Equal(t, []string{"FindByName", "Create"}, store.Calls)
	})

	t.Run("trims input", func(t *testing.T) {
		engine := newEngine(tu.NewMemoryStore())

		rec, err := engine.Insert(ctx, models.CreateRecommendation{Name: "  Asa Branca ", YouTubeLink: " https://youtu.be/a "})
		require.NoError(t, err)
		assert.Equal(t, "Asa Branca", rec.Name)
		assert.Equal(t, "https://youtu.be/a", rec.YouTubeLink)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		store := tu.NewMockStore()
		engine := newEngine(store)
		input := models.CreateRecommendation{Name: "A", YouTubeLink: "L"}

		_, err := engine.Insert(ctx, input)
		require.NoError(t, err)

		_, err = engine.Insert(ctx, input)
		require.ErrorIs(t, err, shared.ErrConflict)
		assert.Equal(t, 1, store.Called("Create"))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("store conflict is surfaced as conflict", func(t *testing.T) {
		store := tu.NewMockStore()
		store.Errors["Create"] = fmt.Errorf("unique constraint: %w", shared.ErrConflict)
		engine := newEngine(store)

		_, err := engine.Insert(ctx, models.CreateRecommendation{Name: "A", YouTubeLink: "L"})
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("missing fields", func(t *testing.T) {
		store := tu.NewMockStore()
		engine := newEngine(store)

		_, err := engine.Insert(ctx, models.CreateRecommendation{Name: "   ", YouTubeLink: "L"})
		require.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = engine.Insert(ctx, models.CreateRecommendation{Name: "A"})
		require.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Empty(t, store.Calls)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		store := tu.NewMockStore()
		store.Errors["FindByName"] = boom
		engine := newEngine(store)

		_, err := engine.Insert(ctx, models.CreateRecommendation{Name: "A", YouTubeLink: "L"})
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, store.Called("Create"))
	})
}

func TestVotes(t *testing.T) {
	ctx := context.Background()

	t.Run("upvote increments by one", func(t *testing.T) {
		store := tu.NewMockStore()
		rec := store.Seed("A", 3)
		spy := &spyRecorder{}
		engine := recommendations.NewEngine(store, recommendations.EngineOpts{Recorder: spy})

		require.NoError(t, engine.Upvote(ctx, rec.ID))

		got, err := engine.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Score)
		assert.Equal(t, []models.Direction{models.Increment}, spy.votes)
	})

	t.Run("upvote has no upper bound", func(t *testing.T) {
		store := tu.NewMemoryStore()
		rec := store.Seed("A", 1_000_000)
		engine := newEngine(store)

		require.NoError(t, engine.Upvote(ctx, rec.ID))
		got, err := engine.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, 1_000_001, got.Score)
	})

	t.Run("downvote decrements by one", func(t *testing.T) {
		store := tu.NewMockStore()
		rec := store.Seed("A", 0)
		engine := newEngine(store)

		require.NoError(t, engine.Downvote(ctx, rec.ID))
		got, err := engine.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, -1, got.Score)
		assert.Zero(t, store.Called("Remove"))
	})

	t.Run("downvote from -4 keeps -5", func(t *testing.T) {
		store := tu.NewMockStore()
		rec := store.Seed("A", -4)
		engine := newEngine(store)

		require.NoError(t, engine.Downvote(ctx, rec.ID))
		got, err := engine.GetByID(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, -5, got.Score)
		assert.Zero(t, store.Called("Remove"))
	})

	t.Run("downvote from -5 evicts", func(t *testing.T) {
		store := tu.NewMockStore()
		rec := store.Seed("A", -5)
		spy := &spyRecorder{}
		engine := recommendations.NewEngine(store, recommendations.EngineOpts{Recorder: spy})

		require.NoError(t, engine.Downvote(ctx, rec.ID))
		assert.Equal(t, 1, store.Called("Remove"))
		assert.Equal(t, 1, spy.evictions)

		_, err := engine.GetByID(ctx, rec.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("eviction frees the name", func(t *testing.T) {
		store := tu.NewMemoryStore()
		rec := store.Seed("A", -5)
		engine := newEngine(store)

		require.NoError(t, engine.Downvote(ctx, rec.ID))
		_, err := engine.Insert(ctx, models.CreateRecommendation{Name: "A", YouTubeLink: "L"})
		assert.NoError(t, err)
	})

	t.Run("remove failure propagates", func(t *testing.T) {
		boom := errors.New("disk full")
		store := tu.NewMockStore()
		rec := store.Seed("A", -5)
		store.Errors["Remove"] = boom
		engine := newEngine(store)

		err := engine.Downvote(ctx, rec.ID)
		assert.ErrorIs(t, err, boom)

		got, err := store.FindByID(ctx, rec.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, recommendations.EvictionThreshold, got.Score, "failed eviction must restore the score")
		assert.Equal(t, []string{"FindByID", "UpdateScore", "Remove", "UpdateScore"}, store.Calls)

		top, err := engine.GetTop(ctx, 10)
		require.NoError(t, err)
		for _, r := range top {
			assert.GreaterOrEqual(t, r.Score, recommendations.EvictionThreshold)
		}
	})

	t.Run("concurrent eviction settles", func(t *testing.T) {
		store := &evictingStore{MemoryStore: tu.NewMemoryStore()}
		rec := store.Seed("A", -5)
		engine := newEngine(store)

		require.NoError(t, engine.Downvote(ctx, rec.ID))
		assert.Zero(t, store.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		store := tu.NewMockStore()
		engine := newEngine(store)

		assert.ErrorIs(t, engine.Upvote(ctx, 42), shared.ErrNotFound)
		assert.ErrorIs(t, engine.Downvote(ctx, 42), shared.ErrNotFound)
		_, err := engine.GetByID(ctx, 42)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, store.Called("UpdateScore"))
	})

	t.Run("update failure propagates", func(t *testing.T) {
		boom := errors.New("locked")
		store := tu.NewMockStore()
		rec := store.Seed("A", 0)
		store.Errors["UpdateScore"] = boom
		engine := newEngine(store)

		assert.ErrorIs(t, engine.Upvote(ctx, rec.ID), boom)
		assert.ErrorIs(t, engine.Downvote(ctx, rec.ID), boom)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		engine := newEngine(tu.NewMemoryStore())

		recs, err := engine.Get(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("newest first", func(t *testing.T) {
		store := tu.NewMemoryStore()
		store.Seed("A", 0)
		store.Seed("B", 5)
		store.Seed("C", -2)
		engine := newEngine(store)

		recs, err := engine.Get(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "C", recs[0].Name)
		assert.Equal(t, "A", recs[2].Name)
	})
}

func TestGetLatest(t *testing.T) {
	ctx := context.Background()

	seed := func() *tu.MockStore {
		store := tu.NewMockStore()
		store.Seed("A", 0)
		store.Seed("B", 5)
		store.Seed("C", -2)
		return store
	}

	t.Run("limit is applied by the store", func(t *testing.T) {
		store := seed()
		engine := newEngine(store)

		recs, err := engine.GetLatest(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, []string{"C", "B"}, []string{recs[0].Name, recs[1].Name})
		assert.Equal(t, 1, store.Called("FindLatest"))
		assert.Zero(t, store.Called("FindAll"))
	})

	t.Run("non-positive limit returns everything", func(t *testing.T) {
		store := seed()
		engine := newEngine(store)

		recs, err := engine.GetLatest(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, recs, 3)
		assert.Zero(t, store.Called("FindLatest"))
	})

	t.Run("store failure", func(t *testing.T) {
		store := seed()
		store.Errors = map[string]error{"FindLatest": errors.New("disk gone")}
		engine := newEngine(store)

		_, err := engine.GetLatest(ctx, 2)
		assert.ErrorContains(t, err, "disk gone")
	})
}

func TestGetTop(t *testing.T) {
	ctx := context.Background()

	seed := func() *tu.MockStore {
		store := tu.NewMockStore()
		store.Seed("A", 2)
		store.Seed("B", 7)
		store.Seed("C", 7)
		store.Seed("D", -1)
		return store
	}

	t.Run("ordered by score then id", func(t *testing.T) {
		engine := newEngine(seed())

		recs, err := engine.GetTop(ctx, 3)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, []string{"B", "C", "A"}, []string{recs[0].Name, recs[1].Name, recs[2].Name})
	})

	t.Run("amount larger than store", func(t *testing.T) {
		engine := newEngine(seed())

		recs, err := engine.GetTop(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, recs, 4)
	})

	t.Run("zero amount", func(t *testing.T) {
		store := seed()
		engine := newEngine(store)

		recs, err := engine.GetTop(ctx, 0)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
		assert.Zero(t, store.Called("FindTop"))
	})

	t.Run("negative amount", func(t *testing.T) {
		engine := newEngine(seed())

		_, err := engine.GetTop(ctx, -1)
		assert.ErrorIs(t, err, shared.ErrInvalidAmount)
	})
}

func TestGetRandom(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		store := tu.NewMockStore()
		engine := newEngine(store, 0.1, 0.1)

		_, err := engine.GetRandom(ctx)
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, 2, store.Called("FindAll"))
	})

	t.Run("low draw queries high bucket", func(t *testing.T) {
		store := tu.NewMockStore()
		store.Seed("A", 11)
		store.Seed("B", 3)
		spy := &spyRecorder{}
		engine := recommendations.NewEngine(store, recommendations.EngineOpts{
			Random:   tu.NewSequenceRandom(0.69, 0),
			Recorder: spy,
		})

		rec, err := engine.GetRandom(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A", rec.Name)
		require.Len(t, store.Filters, 1)
		assert.Equal(t, models.ScoreFilter{Score: 10, Comparison: models.GreaterThan}, *store.Filters[0])
		assert.Equal(t, []recommendations.Bucket{recommendations.HighBucket}, spy.picks)
		assert.Zero(t, spy.fallbacks)
	})

	t.Run("high draw queries low bucket", func(t *testing.T) {
		store := tu.NewMockStore()
		store.Seed("A", 11)
		store.Seed("B", 10)
		engine := newEngine(store, 0.7, 0)

		rec, err := engine.GetRandom(ctx)
		require.NoError(t, err)
		assert.Equal(t, "B", rec.Name)
		assert.Equal(t, models.ScoreFilter{Score: 10, Comparison: models.LessThanOrEqual}, *store.Filters[0])
	})

	t.Run("empty bucket retries once with opposite filter", func(t *testing.T) {
		store := tu.NewMockStore()
		for i := range 10 {
			store.Seed(fmt.Sprintf("song-%d", i+1), i)
		}
		spy := &spyRecorder{}
		random := tu.NewSequenceRandom(0.6, 0.55)
		engine := recommendations.NewEngine(store, recommendations.EngineOpts{Random: random, Recorder: spy})

		all, err := store.FindAll(ctx, nil)
		require.NoError(t, err)
		store.Filters = nil

		rec, err := engine.GetRandom(ctx)
		require.NoError(t, err)
		assert.Equal(t, all[5], *rec)
		require.Len(t, store.Filters, 2)
		assert.Equal(t, models.GreaterThan, store.Filters[0].Comparison)
		assert.Equal(t, models.LessThanOrEqual, store.Filters[1].Comparison)
		assert.Equal(t, []recommendations.Bucket{recommendations.LowBucket}, spy.picks)
		assert.Equal(t, 1, spy.fallbacks)
		assert.Equal(t, 2, random.Used())
	})

	t.Run("index follows second draw", func(t *testing.T) {
		store := tu.NewMemoryStore()
		for i := range 4 {
			store.Seed(fmt.Sprintf("song-%d", i+1), 0)
		}
		all, err := store.FindAll(ctx, nil)
		require.NoError(t, err)

		tc := []struct {
			draw float64
			want int
		}{
			{draw: 0, want: 0},
			{draw: 0.24, want: 0},
			{draw: 0.25, want: 1},
			{draw: 0.74, want: 2},
			{draw: 0.999999, want: 3},
		}
		for _, tt := range tc {
			t.Run(fmt.Sprintf("%v", tt.draw), func(t *testing.T) {
				engine := newEngine(store, 0.9, tt.draw)
				rec, err := engine.GetRandom(ctx)
				require.NoError(t, err)
				assert.Equal(t, all[tt.want].ID, rec.ID)
			})
		}
	})

	t.Run("list failure propagates", func(t *testing.T) {
		boom := errors.New("boom")
		store := tu.NewMockStore()
		store.Errors["FindAll"] = boom
		engine := newEngine(store, 0.1, 0.1)

		_, err := engine.GetRandom(ctx)
		assert.ErrorIs(t, err, boom)
	})
}
