// Package repositories implements SQLite persistence for recommendations.
//
// [RecommendationRepository] satisfies the store the recommendation engine consumes. Deletes are soft: evicted rows
// keep their data with a deleted_at timestamp and are excluded from every query, which also frees the name for a new
// submission.
//
// Score changes are relative updates executed in a transaction with the follow-up read, so concurrent votes never
// overwrite each other and each caller sees the score its own vote produced.
package repositories
