package recommendations

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/shared"
)

const (
	// EvictionThreshold is the lowest score a recommendation may keep after a downvote.
	EvictionThreshold = -5
	// HighScoreThreshold separates the high bucket (score > threshold) from the low bucket.
	HighScoreThreshold = 10
	// HighBucketWeight is the probability that a random pick starts in the high bucket.
	HighBucketWeight = 0.7
)

// Bucket names a score partition used by the weighted random pick.
type Bucket string

const (
	HighBucket Bucket = "high"
	LowBucket  Bucket = "low"
)

// Store is the persistence the engine depends on.
//
// FindByID and FindByName return (nil, nil) when nothing matches. UpdateScore applies the direction as a relative
// change and returns the record after the update. Create reports a duplicate live name with [shared.ErrConflict].
type Store interface {
	Create(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error)
	FindByID(ctx context.Context, id int64) (*models.Recommendation, error)
	FindByName(ctx context.Context, name string) (*models.Recommendation, error)
	UpdateScore(ctx context.Context, id int64, direction models.Direction) (*models.Recommendation, error)
	Remove(ctx context.Context, id int64) error
	FindAll(ctx context.Context, filter *models.ScoreFilter) ([]models.Recommendation, error)
	FindLatest(ctx context.Context, limit int) ([]models.Recommendation, error)
	FindTop(ctx context.Context, limit int) ([]models.Recommendation, error)
}

// Recorder observes engine events, typically to export metrics.
type Recorder interface {
	Vote(direction models.Direction)
	Evicted()
	RandomPick(bucket Bucket, fallback bool)
}

// ScoringEngine is the set of operations exposed to transports and the TUI.
type ScoringEngine interface {
	// Insert creates a recommendation with score 0, failing with [shared.ErrConflict] on a duplicate name.
	Insert(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error)

	// Upvote adds one to the score of the recommendation with the given ID.
	Upvote(ctx context.Context, id int64) error

	// Downvote subtracts one from the score and evicts the recommendation once it drops below [EvictionThreshold].
	Downvote(ctx context.Context, id int64) error

	// Get returns every live recommendation, newest first.
	Get(ctx context.Context) ([]models.Recommendation, error)

	// GetLatest returns at most limit recommendations, newest first. A non-positive limit returns all of them.
	GetLatest(ctx context.Context, limit int) ([]models.Recommendation, error)

	// GetByID returns a single recommendation or [shared.ErrNotFound].
	GetByID(ctx context.Context, id int64) (*models.Recommendation, error)

	// GetTop returns at most amount recommendations ordered by score descending, then ID ascending.
	GetTop(ctx context.Context, amount int) ([]models.Recommendation, error)

	// GetRandom returns a score-weighted random recommendation or [shared.ErrNotFound] when none exist.
	GetRandom(ctx context.Context) (*models.Recommendation, error)
}

var _ ScoringEngine = (*Engine)(nil)

// EngineOpts contains optional collaborators for [NewEngine].
type EngineOpts struct {
	Random   RandomSource
	Logger   *log.Logger
	Recorder Recorder
}

// Engine implements [ScoringEngine] on top of a [Store]. It holds no mutable state of its own.
type Engine struct {
	store    Store
	random   RandomSource
	logger   *log.Logger
	recorder Recorder
}

// NewEngine creates an [Engine]. Missing options fall back to the global random source, a discarding logger and
// a no-op recorder.
func NewEngine(store Store, opts EngineOpts) *Engine {
	if opts.Random == nil {
		opts.Random = NewRandomSource(0)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Recorder == nil {
		opts.Recorder = noopRecorder{}
	}

	return &Engine{
		store:    store,
		random:   opts.Random,
		logger:   shared.WithLogger(opts.Logger, "component", "engine"),
		recorder: opts.Recorder,
	}
}

func (e *Engine) Insert(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	existing, err := e.store.FindByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recommendation by name: %w", err)
	}
	if existing != nil {
		e.logger.Debug("duplicate recommendation", "name", input.Name, "existing_id", existing.ID)
		return nil, fmt.Errorf("%w: %q", shared.ErrConflict, input.Name)
	}

	rec, err := e.store.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation: %w", err)
	}

	e.logger.Info("recommendation created", "id", rec.ID, "name", rec.Name)
	return rec, nil
}

func (e *Engine) Upvote(ctx context.Context, id int64) error {
	if _, err := e.GetByID(ctx, id); err != nil {
		return err
	}

	if _, err := e.store.UpdateScore(ctx, id, models.Increment); err != nil {
		return fmt.Errorf("failed to upvote recommendation %d: %w", id, err)
	}

	e.recorder.Vote(models.Increment)
	return nil
}

func (e *Engine) Downvote(ctx context.Context, id int64) error {
	if _, err := e.GetByID(ctx, id); err != nil {
		return err
	}

	updated, err := e.store.UpdateScore(ctx, id, models.Decrement)
	if err != nil {
		return fmt.Errorf("failed to downvote recommendation %d: %w", id, err)
	}
	e.recorder.Vote(models.Decrement)

	if updated.Score >= EvictionThreshold {
		return nil
	}

	if err := e.store.Remove(ctx, id); err != nil {
		// A concurrent downvote already evicted it.
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return e.revertDownvote(ctx, id, err)
	}

	e.recorder.Evicted()
	e.logger.Info("recommendation evicted", "id", id, "name", updated.Name, "score", updated.Score)
	return nil
}

// revertDownvote restores the score after a failed eviction so no live record is left below [EvictionThreshold].
func (e *Engine) revertDownvote(ctx context.Context, id int64, cause error) error {
	evictErr := fmt.Errorf("failed to evict recommendation %d: %w", id, cause)

	if _, err := e.store.UpdateScore(ctx, id, models.Increment); err != nil && !errors.Is(err, shared.ErrNotFound) {
		e.logger.Error("failed to revert downvote", "id", id, "error", err)
		return errors.Join(evictErr, fmt.Errorf("failed to revert downvote of recommendation %d: %w", id, err))
	}
	return evictErr
}

func (e *Engine) Get(ctx context.Context) ([]models.Recommendation, error) {
	recs, err := e.store.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return nonNil(recs), nil
}

func (e *Engine) GetLatest(ctx context.Context, limit int) ([]models.Recommendation, error) {
	if limit <= 0 {
		return e.Get(ctx)
	}

	recs, err := e.store.FindLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return nonNil(recs), nil
}

func (e *Engine) GetByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	rec, err := e.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recommendation %d: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: id %d", shared.ErrNotFound, id)
	}
	return rec, nil
}

func (e *Engine) GetTop(ctx context.Context, amount int) ([]models.Recommendation, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: got %d", shared.ErrInvalidAmount, amount)
	}
	if amount == 0 {
		return []models.Recommendation{}, nil
	}

	recs, err := e.store.FindTop(ctx, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to list top recommendations: %w", err)
	}
	if len(recs) > amount {
		recs = recs[:amount]
	}
	return nonNil(recs), nil
}

func (e *Engine) GetRandom(ctx context.Context) (*models.Recommendation, error) {
	bucket, filter := bucketFor(e.random.Float64())

	recs, err := e.store.FindAll(ctx, &filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s bucket: %w", bucket, err)
	}

	fallback := false
	if len(recs) == 0 {
		fallback = true
		bucket, filter = opposite(bucket), filter.Opposite()

		recs, err = e.store.FindAll(ctx, &filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s bucket: %w", bucket, err)
		}
	}

	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: no recommendations to pick from", shared.ErrNotFound)
	}

	e.recorder.RandomPick(bucket, fallback)

	rec := recs[pickIndex(e.random.Float64(), len(recs))]
	return &rec, nil
}

// bucketFor maps the bucket-selecting draw onto a bucket and its filter.
func bucketFor(draw float64) (Bucket, models.ScoreFilter) {
	high := models.ScoreFilter{Score: HighScoreThreshold, Comparison: models.GreaterThan}
	if draw < HighBucketWeight {
		return HighBucket, high
	}
	return LowBucket, high.Opposite()
}

func opposite(b Bucket) Bucket {
	if b == HighBucket {
		return LowBucket
	}
	return HighBucket
}

func nonNil(recs []models.Recommendation) []models.Recommendation {
	if recs == nil {
		return []models.Recommendation{}
	}
	return recs
}

type noopRecorder struct{}

func (noopRecorder) Vote(models.Direction)   {}
func (noopRecorder) Evicted()                {}
func (noopRecorder) RandomPick(Bucket, bool) {}
