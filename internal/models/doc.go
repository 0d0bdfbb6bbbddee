// Package models defines the domain entities of the recommendation service.
//
//   - [Recommendation] : a submitted song with its YouTube link and vote score
//   - [CreateRecommendation] : the payload accepted when submitting a song
//   - [ScoreFilter] : a score comparison used by the weighted random pick
//   - [Direction] : the sign of a single vote
//
// Persistence lives in the repositories package; scoring rules live in the recommendations package.
package models
