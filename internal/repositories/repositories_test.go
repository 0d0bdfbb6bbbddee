package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreate(t *testing.T, repo *RecommendationRepository, name string) *models.Recommendation {
	t.Helper()

	rec, err := repo.Create(context.Background(), models.CreateRecommendation{
		Name:        name,
		YouTubeLink: "https://youtu.be/" + name,
	})
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	return rec
}

func mustVote(t *testing.T, repo *RecommendationRepository, id int64, direction models.Direction, times int) {
	t.Helper()

	for range times {
		if _, err := repo.UpdateScore(context.Background(), id, direction); err != nil {
			t.Fatalf("failed to vote on %d: %v", id, err)
		}
	}
}

func TestRecommendationRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))

		first := mustCreate(t, repo, "first")
		second := mustCreate(t, repo, "second")

		if first.ID <= 0 {
			t.Errorf("expected positive id, got %d", first.ID)
		}
		if second.ID <= first.ID {
			t.Errorf("expected increasing ids, got %d then %d", first.ID, second.ID)
		}
		if first.Score != 0 {
			t.Errorf("expected zero score, got %d", first.Score)
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		mustCreate(t, repo, "dup")

		_, err := repo.Create(ctx, models.CreateRecommendation{Name: "dup", YouTubeLink: "https://youtu.be/other"})
		if !errors.Is(err, shared.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("CreateValidation", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))

		if _, err := repo.Create(ctx, models.CreateRecommendation{Name: "x"}); err == nil {
			t.Fatal("expected validation error for empty link")
		}
	})

	t.Run("FindByID", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		created := mustCreate(t, repo, "findme")

		got, err := repo.FindByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to find: %v", err)
		}
		if got == nil || got.Name != "findme" || got.YouTubeLink != "https://youtu.be/findme" {
			t.Fatalf("unexpected recommendation: %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}

		missing, err := repo.FindByID(ctx, 999)
		if err != nil || missing != nil {
			t.Errorf("expected (nil, nil) for missing id, got (%v, %v)", missing, err)
		}
	})

	t.Run("FindByName", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		created := mustCreate(t, repo, "named")

		got, err := repo.FindByName(ctx, "named")
		if err != nil {
			t.Fatalf("failed to find: %v", err)
		}
		if got == nil || got.ID != created.ID {
			t.Fatalf("expected id %d, got %+v", created.ID, got)
		}

		missing, err := repo.FindByName(ctx, "nope")
		if err != nil || missing != nil {
			t.Errorf("expected (nil, nil) for missing name, got (%v, %v)", missing, err)
		}
	})

	t.Run("UpdateScore", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		rec := mustCreate(t, repo, "voted")

		up, err := repo.UpdateScore(ctx, rec.ID, models.Increment)
		if err != nil {
			t.Fatalf("failed to upvote: %v", err)
		}
		if up.Score != 1 {
			t.Errorf("expected score 1, got %d", up.Score)
		}

		down, err := repo.UpdateScore(ctx, rec.ID, models.Decrement)
		if err != nil {
			t.Fatalf("failed to downvote: %v", err)
		}
		if down.Score != 0 {
			t.Errorf("expected score 0, got %d", down.Score)
		}

		if _, err := repo.UpdateScore(ctx, 999, models.Increment); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := repo.UpdateScore(ctx, rec.ID, models.Direction(3)); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ConcurrentVotes", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		rec := mustCreate(t, repo, "popular")

		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := range 40 {
			wg.Add(1)
			go func(up bool) {
				defer wg.Done()
				direction := models.Decrement
				if up {
					direction = models.Increment
				}
				if _, err := repo.UpdateScore(ctx, rec.ID, direction); err != nil {
					errs <- err
				}
			}(i%4 != 0)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Fatalf("vote failed: %v", err)
		}

		got, err := repo.FindByID(ctx, rec.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Score != 20 {
			t.Errorf("expected score 20 after 30 up and 10 down, got %d", got.Score)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		rec := mustCreate(t, repo, "gone")

		if err := repo.Remove(ctx, rec.ID); err != nil {
			t.Fatalf("failed to remove: %v", err)
		}

		got, err := repo.FindByID(ctx, rec.ID)
		if err != nil || got != nil {
			t.Errorf("expected removed row to be hidden, got (%v, %v)", got, err)
		}
		if err := repo.Remove(ctx, rec.ID); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second remove, got %v", err)
		}
		if _, err := repo.UpdateScore(ctx, rec.ID, models.Increment); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound voting on removed row, got %v", err)
		}

		again := mustCreate(t, repo, "gone")
		if again.ID == rec.ID {
			t.Error("expected a fresh id for a resubmitted name")
		}
	})

	t.Run("FindAll", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		low := mustCreate(t, repo, "low")
		edge := mustCreate(t, repo, "edge")
		high := mustCreate(t, repo, "high")
		removed := mustCreate(t, repo, "removed")

		mustVote(t, repo, edge.ID, models.Increment, 10)
		mustVote(t, repo, high.ID, models.Increment, 11)
		if err := repo.Remove(ctx, removed.ID); err != nil {
			t.Fatal(err)
		}

		tc := []struct {
			name   string
			filter *models.ScoreFilter
			want   []int64
		}{
			{name: "all", filter: nil, want: []int64{high.ID, edge.ID, low.ID}},
			{name: "gt", filter: &models.ScoreFilter{Score: 10, Comparison: models.GreaterThan}, want: []int64{high.ID}},
			{name: "lte", filter: &models.ScoreFilter{Score: 10, Comparison: models.LessThanOrEqual}, want: []int64{edge.ID, low.ID}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.FindAll(ctx, tt.filter)
				if err != nil {
					t.Fatal(err)
				}
				if ids := idsOf(got); fmt.Sprint(ids) != fmt.Sprint(tt.want) {
					t.Errorf("expected %v, got %v", tt.want, ids)
				}
			})
		}

		if _, err := repo.FindAll(ctx, &models.ScoreFilter{Comparison: "eq"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for unknown comparison, got %v", err)
		}
	})

	t.Run("FindAllEmpty", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))

		got, err := repo.FindAll(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("FindLatest", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		a := mustCreate(t, repo, "a")
		b := mustCreate(t, repo, "b")
		c := mustCreate(t, repo, "c")
		d := mustCreate(t, repo, "d")

		if err := repo.Remove(ctx, d.ID); err != nil {
			t.Fatal(err)
		}

		got, err := repo.FindLatest(ctx, 2)
		if err != nil {
			t.Fatal(err)
		}
		want := []int64{c.ID, b.ID}
		if ids := idsOf(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Errorf("expected %v, got %v", want, ids)
		}

		all, err := repo.FindLatest(ctx, 100)
		if err != nil {
			t.Fatal(err)
		}
		if ids := idsOf(all); fmt.Sprint(ids) != fmt.Sprint([]int64{c.ID, b.ID, a.ID}) {
			t.Errorf("expected live rows newest first, got %v", ids)
		}

		if _, err := repo.FindLatest(ctx, -1); !errors.Is(err, shared.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("FindTop", func(t *testing.T) {
		repo := NewRecommendationRepository(setupTestDB(t))
		a := mustCreate(t, repo, "a")
		b := mustCreate(t, repo, "b")
		c := mustCreate(t, repo, "c")
		d := mustCreate(t, repo, "d")

		mustVote(t, repo, a.ID, models.Increment, 2)
		mustVote(t, repo, b.ID, models.Increment, 5)
		mustVote(t, repo, c.ID, models.Increment, 5)
		mustVote(t, repo, d.ID, models.Decrement, 1)

		got, err := repo.FindTop(ctx, 3)
		if err != nil {
			t.Fatal(err)
		}
		want := []int64{b.ID, c.ID, a.ID}
		if ids := idsOf(got); fmt.Sprint(ids) != fmt.Sprint(want) {
			t.Errorf("expected %v, got %v", want, ids)
		}

		all, err := repo.FindTop(ctx, 100)
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 4 {
			t.Errorf("expected 4 results, got %d", len(all))
		}

		if _, err := repo.FindTop(ctx, -1); !errors.Is(err, shared.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewRecommendationRepository(db)
		db.Close()

		if _, err := repo.Create(ctx, models.CreateRecommendation{Name: "x", YouTubeLink: "y"}); err == nil {
			t.Error("expected create error on closed database")
		}
		if _, err := repo.FindAll(ctx, nil); err == nil {
			t.Error("expected list error on closed database")
		}
		if _, err := repo.UpdateScore(ctx, 1, models.Increment); err == nil {
			t.Error("expected update error on closed database")
		}
	})
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(errors.New("UNIQUE constraint failed")) {
		t.Error("plain errors should not be treated as constraint failures")
	}
	if isUniqueViolation(nil) {
		t.Error("nil is not a constraint failure")
	}
}

func idsOf(recs []models.Recommendation) []int64 {
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids
}
