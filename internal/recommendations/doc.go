// Package recommendations implements the scoring and selection rules for song recommendations.
//
// # Scoring
//
// Every recommendation starts at score zero. [Engine.Upvote] and [Engine.Downvote] move the score by exactly one
// through the store's atomic relative update, so concurrent votes never lose an update. A downvote that leaves the
// score below [EvictionThreshold] removes the recommendation in the same call: -5 survives, -6 does not.
//
// # Selection
//
// [Engine.GetTop] returns the highest scores first, ties broken by ascending ID.
//
// [Engine.GetRandom] draws once to pick a bucket: with probability [HighBucketWeight] the "high" bucket
// (score > [HighScoreThreshold]), otherwise the "low" bucket (score <= [HighScoreThreshold]). An empty bucket is
// retried exactly once with the opposite filter. A second, independent draw picks the index as floor(draw * n).
//
// Both draws come from the [RandomSource] given at construction so tests can fix them.
//
// # Errors
//
// The engine returns [shared.ErrNotFound], [shared.ErrConflict], [shared.ErrInvalidAmount] and
// [shared.ErrInvalidInput] wrapped with context. Store failures propagate unchanged in kind; nothing is retried.
package recommendations
