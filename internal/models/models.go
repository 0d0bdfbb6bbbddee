// package models defines the data model for the recommendation service
package models

import (
	"fmt"
	"strings"
	"time"
)

// Recommendation is a song submitted by a listener.
//
// ID is assigned by the store and never changes. Score starts at zero and only moves by one per vote.
type Recommendation struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	YouTubeLink string    `json:"youtubeLink"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateRecommendation is the data required to submit a new recommendation.
type CreateRecommendation struct {
	Name        string `json:"name" validate:"required,max=255"`
	YouTubeLink string `json:"youtubeLink" validate:"required,youtube"`
}

// Normalize trims surrounding whitespace from both fields.
func (c CreateRecommendation) Normalize() CreateRecommendation {
	return CreateRecommendation{
		Name:        strings.TrimSpace(c.Name),
		YouTubeLink: strings.TrimSpace(c.YouTubeLink),
	}
}

// Validate checks presence of both fields. Link format is a transport concern.
func (c CreateRecommendation) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(c.YouTubeLink) == "" {
		return fmt.Errorf("youtube link is required")
	}
	return nil
}

// Direction is the sign of a single vote.
type Direction int

const (
	Increment Direction = 1
	Decrement Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Increment:
		return "increment"
	case Decrement:
		return "decrement"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Comparison selects how [ScoreFilter] compares a score.
type Comparison string

const (
	GreaterThan     Comparison = "gt"
	LessThanOrEqual Comparison = "lte"
)

// ScoreFilter restricts a listing to scores strictly above, or at most, Score.
type ScoreFilter struct {
	Score      int
	Comparison Comparison
}

// Opposite returns the complementary filter; together the two partition every score.
func (f ScoreFilter) Opposite() ScoreFilter {
	switch f.Comparison {
	case GreaterThan:
		return ScoreFilter{Score: f.Score, Comparison: LessThanOrEqual}
	default:
		return ScoreFilter{Score: f.Score, Comparison: GreaterThan}
	}
}

// Match reports whether score satisfies the filter.
func (f ScoreFilter) Match(score int) bool {
	if f.Comparison == GreaterThan {
		return score > f.Score
	}
	return score <= f.Score
}

func (f ScoreFilter) String() string {
	return fmt.Sprintf("score %s %d", f.Comparison, f.Score)
}
