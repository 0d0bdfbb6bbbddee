package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/shared"
	json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 16

const (
	routeCreate   = "POST /recommendations"
	routeList     = "GET /recommendations"
	routeRandom   = "GET /recommendations/random"
	routeTop      = "GET /recommendations/top/{amount}"
	routeShow     = "GET /recommendations/{id}"
	routeUpvote   = "POST /recommendations/{id}/upvote"
	routeDownvote = "POST /recommendations/{id}/downvote"
)

// RecommendationHandler serves the recommendation endpoints on top of a [recommendations.ScoringEngine].
type RecommendationHandler struct {
	engine    recommendations.ScoringEngine
	listLimit int
	logger    *log.Logger
}

// NewRecommendationHandler creates a handler. listLimit bounds GET /recommendations; zero or less means no bound.
func NewRecommendationHandler(engine recommendations.ScoringEngine, listLimit int, logger *log.Logger) *RecommendationHandler {
	return &RecommendationHandler{engine: engine, listLimit: listLimit, logger: logger}
}

func (h *RecommendationHandler) Routes() []string {
	return []string{routeCreate, routeList, routeRandom, routeTop, routeShow, routeUpvote, routeDownvote}
}

func (h *RecommendationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var err error

	switch r.Pattern {
	case routeCreate:
		err = h.create(w, r)
	case routeList:
		err = h.list(w, r)
	case routeRandom:
		err = h.random(w, r)
	case routeTop:
		err = h.top(w, r)
	case routeShow:
		err = h.show(w, r)
	case routeUpvote:
		err = h.vote(w, r, h.engine.Upvote)
	case routeDownvote:
		err = h.vote(w, r, h.engine.Downvote)
	default:
		err = fmt.Errorf("%w: no route for %s", shared.ErrNotFound, r.URL.Path)
	}

	if err != nil {
		writeError(w, h.logger, err)
	}
}

func (h *RecommendationHandler) create(w http.ResponseWriter, r *http.Request) error {
	var input models.CreateRecommendation

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %v", shared.ErrInvalidArgument, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("%w: request body is empty", shared.ErrInvalidInput)
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return fmt.Errorf("%w: malformed JSON: %v", shared.ErrInvalidArgument, err)
	}

	input = input.Normalize()
	if err := shared.ValidateStruct(input); err != nil {
		return err
	}

	rec, err := h.engine.Insert(r.Context(), input)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, rec)
}

func (h *RecommendationHandler) list(w http.ResponseWriter, r *http.Request) error {
	recs, err := h.engine.GetLatest(r.Context(), h.listLimit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendationHandler) random(w http.ResponseWriter, r *http.Request) error {
	rec, err := h.engine.GetRandom(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

func (h *RecommendationHandler) top(w http.ResponseWriter, r *http.Request) error {
	amount, err := strconv.Atoi(r.PathValue("amount"))
	if err != nil {
		return fmt.Errorf("%w: amount must be an integer", shared.ErrInvalidArgument)
	}

	recs, err := h.engine.GetTop(r.Context(), amount)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendationHandler) show(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	rec, err := h.engine.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rec)
}

func (h *RecommendationHandler) vote(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64) error) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := apply(r.Context(), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", shared.ErrInvalidArgument)
	}
	return id, nil
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func (HealthHandler) Routes() []string { return []string{"GET /healthz"} }

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
