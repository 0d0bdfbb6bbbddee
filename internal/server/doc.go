// Package server provides the HTTP routing, middleware, and JSON API for recommendations.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Middleware added with [BasicRouter.Use] applies to handlers registered afterwards, which lets /metrics and
// /healthz sit outside the rate limiter.
//
// The [BasicRouter] implementation registers "METHOD /path" patterns on [http.ServeMux].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [RecommendationHandler] dispatches on [http.Request.Pattern].
//
// # Endpoints
//
//	POST /recommendations                  201, 409 on duplicate name, 422 on invalid body
//	GET  /recommendations                  latest recommendations, newest first
//	GET  /recommendations/random           200, 404 when empty
//	GET  /recommendations/top/{amount}     200, 400 on non-integer, 422 on negative
//	GET  /recommendations/{id}             200 or 404
//	POST /recommendations/{id}/upvote      200 or 404
//	POST /recommendations/{id}/downvote    200 or 404
//	GET  /healthz
//	GET  /metrics
//
// Errors are returned as {"error": "...", "fields": [...]} with the status chosen by [StatusFor].
package server
