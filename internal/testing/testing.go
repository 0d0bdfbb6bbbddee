// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/shared"
)

// MemoryStore is an in-memory recommendation store with the same observable behaviour as the SQLite repository:
// IDs increase from 1, removed rows are hidden, and live names are unique.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.Recommendation
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Seed inserts a recommendation with a preset score and returns it.
func (m *MemoryStore) Seed(name string, score int) models.Recommendation {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	rec := &models.Recommendation{
		ID:          m.nextID,
		Name:        name,
		YouTubeLink: "https://youtu.be/" + name,
		Score:       score,
		CreatedAt:   m.now(),
		UpdatedAt:   m.now(),
	}
	m.rows = append(m.rows, rec)
	return *rec
}

// Len returns the number of live recommendations.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemoryStore) Create(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.Name == input.Name {
			return nil, fmt.Errorf("%w: %q", shared.ErrConflict, input.Name)
		}
	}

	m.nextID++
	rec := &models.Recommendation{
		ID:          m.nextID,
		Name:        input.Name,
		YouTubeLink: input.YouTubeLink,
		CreatedAt:   m.now(),
		UpdatedAt:   m.now(),
	}
	m.rows = append(m.rows, rec)

	out := *rec
	return &out, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r := m.find(id); r != nil {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rows {
		if r.Name == name {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) UpdateScore(ctx context.Context, id int64, direction models.Direction) (*models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.find(id)
	if r == nil {
		return nil, fmt.Errorf("%w: id %d", shared.ErrNotFound, id)
	}
	r.Score += int(direction)
	r.UpdatedAt = m.now()

	out := *r
	return &out, nil
}

func (m *MemoryStore) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, r := range m.rows {
		if r.ID == id {
			m.rows = slices.Delete(m.rows, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", shared.ErrNotFound, id)
}

// FindAll returns live rows matching filter, newest first.
func (m *MemoryStore) FindAll(ctx context.Context, filter *models.ScoreFilter) ([]models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Recommendation{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if filter != nil && !filter.Match(r.Score) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// FindLatest returns up to limit rows, newest first.
func (m *MemoryStore) FindLatest(ctx context.Context, limit int) ([]models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Recommendation{}
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.rows[i])
	}
	return out, nil
}

// FindTop returns up to limit rows ordered by score descending, then ID ascending.
func (m *MemoryStore) FindTop(ctx context.Context, limit int) ([]models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Recommendation, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	slices.SortStableFunc(out, func(a, b models.Recommendation) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return int(a.ID - b.ID)
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) find(id int64) *models.Recommendation {
	for _, r := range m.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// MockStore wraps a [MemoryStore], recording every call and failing the methods named in Errors.
type MockStore struct {
	*MemoryStore

	mu     sync.Mutex
	Calls  []string
	Errors map[string]error
	// Filters holds the filter passed to each FindAll call, nil for unfiltered listings.
	Filters []*models.ScoreFilter
}

func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: NewMemoryStore(), Errors: map[string]error{}}
}

// Called reports how many times method was invoked.
func (m *MockStore) Called(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *MockStore) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, method)
	return m.Errors[method]
}

func (m *MockStore) Create(ctx context.Context, input models.CreateRecommendation) (*models.Recommendation, error) {
	if err := m.record("Create"); err != nil {
		return nil, err
	}
	return m.MemoryStore.Create(ctx, input)
}

func (m *MockStore) FindByID(ctx context.Context, id int64) (*models.Recommendation, error) {
	if err := m.record("FindByID"); err != nil {
		return nil, err
	}
	return m.MemoryStore.FindByID(ctx, id)
}

func (m *MockStore) FindByName(ctx context.Context, name string) (*models.Recommendation, error) {
	if err := m.record("FindByName"); err != nil {
		return nil, err
	}
	return m.MemoryStore.FindByName(ctx, name)
}

func (m *MockStore) UpdateScore(ctx context.Context, id int64, direction models.Direction) (*models.Recommendation, error) {
	if err := m.record("UpdateScore"); err != nil {
		return nil, err
	}
	return m.MemoryStore.UpdateScore(ctx, id, direction)
}

func (m *MockStore) Remove(ctx context.Context, id int64) error {
	if err := m.record("Remove"); err != nil {
		return err
	}
	return m.MemoryStore.Remove(ctx, id)
}

func (m *MockStore) FindAll(ctx context.Context, filter *models.ScoreFilter) ([]models.Recommendation, error) {
	m.mu.Lock()
	if filter != nil {
		f := *filter
		m.Filters = append(m.Filters, &f)
	} else {
		m.Filters = append(m.Filters, nil)
	}
	m.mu.Unlock()

	if err := m.record("FindAll"); err != nil {
		return nil, err
	}
	return m.MemoryStore.FindAll(ctx, filter)
}

func (m *MockStore) FindLatest(ctx context.Context, limit int) ([]models.Recommendation, error) {
	if err := m.record("FindLatest"); err != nil {
		return nil, err
	}
	return m.MemoryStore.FindLatest(ctx, limit)
}

func (m *MockStore) FindTop(ctx context.Context, limit int) ([]models.Recommendation, error) {
	if err := m.record("FindTop"); err != nil {
		return nil, err
	}
	return m.MemoryStore.FindTop(ctx, limit)
}

// SequenceRandom returns Draws in order, wrapping around when exhausted.
type SequenceRandom struct {
	mu    sync.Mutex
	Draws []float64
	next  int
}

func NewSequenceRandom(draws ...float64) *SequenceRandom {
	return &SequenceRandom{Draws: draws}
}

func (s *SequenceRandom) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Draws) == 0 {
		return 0
	}
	d := s.Draws[s.next%len(s.Draws)]
	s.next++
	return d
}

// Used reports how many draws have been taken.
func (s *SequenceRandom) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
