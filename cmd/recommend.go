package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/singme/internal/formatter"
	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/shared"
	"github.com/urfave/cli/v3"
)

// Add submits a new recommendation.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	input := models.CreateRecommendation{
		Name:        cmd.StringArg("name"),
		YouTubeLink: cmd.StringArg("link"),
	}.Normalize()

	if input.Name == "" || input.YouTubeLink == "" {
		return fmt.Errorf("%w: usage: add <name> <youtube-link>", shared.ErrMissingArgument)
	}
	if err := shared.ValidateStruct(input); err != nil {
		return err
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	rec, err := engine.Insert(ctx, input)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rec, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Added #%d %s\n", rec.ID, rec.Name)
}

// Upvote adds one to a recommendation's score.
func (r *Runner) Upvote(ctx context.Context, cmd *cli.Command) error {
	return r.vote(ctx, cmd, models.Increment)
}

// Downvote subtracts one from a recommendation's score.
func (r *Runner) Downvote(ctx context.Context, cmd *cli.Command) error {
	return r.vote(ctx, cmd, models.Decrement)
}

func (r *Runner) vote(ctx context.Context, cmd *cli.Command, direction models.Direction) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	if direction == models.Increment {
		if err := engine.Upvote(ctx, id); err != nil {
			return err
		}
	} else if err := engine.Downvote(ctx, id); err != nil {
		return err
	}

	rec, err := engine.GetByID(ctx, id)
	switch {
	case err == nil:
		return r.writePlain("✓ #%d %s is now at %+d\n", rec.ID, rec.Name, rec.Score)
	case direction == models.Decrement && errors.Is(err, shared.ErrNotFound):
		return r.writePlain("✓ #%d dropped below %d and was removed\n", id, recommendations.EvictionThreshold)
	default:
		return err
	}
}

// List prints recommendations, newest first.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	recs, err := engine.GetLatest(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}
	return r.writeTable("Recommendations", recs)
}

// Top prints the highest scored recommendations.
func (r *Runner) Top(ctx context.Context, cmd *cli.Command) error {
	amount := defaultTopAmount
	if raw := cmd.StringArg("amount"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: amount %q is not an integer", shared.ErrInvalidArgument, raw)
		}
		amount = n
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	recs, err := engine.GetTop(ctx, amount)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recs, cmd.Bool("pretty"))
	}
	return r.writeTable(fmt.Sprintf("Top %d", amount), recs)
}

// Random prints a score-weighted random pick.
func (r *Runner) Random(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	rec, err := engine.GetRandom(ctx)
	if err != nil {
		return err
	}
	return r.writeOne(cmd, rec)
}

// Show prints one recommendation.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	rec, err := engine.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.writeOne(cmd, rec)
}

func (r *Runner) writeOne(cmd *cli.Command, rec *models.Recommendation) error {
	if cmd.Bool("json") {
		return r.writeJSON(rec, cmd.Bool("pretty"))
	}
	return r.writePlain("#%d %s\n%s\nscore %+d\n", rec.ID, rec.Name, rec.YouTubeLink, rec.Score)
}

func (r *Runner) writeTable(title string, recs []models.Recommendation) error {
	if err := r.writePlainHeader(title); err != nil {
		return err
	}
	if len(recs) == 0 {
		return r.writePlain("(none)\n")
	}

	width := 0
	for _, rec := range recs {
		width = max(width, len(rec.Name))
	}
	for _, rec := range recs {
		pad := strings.Repeat(" ", width-len(rec.Name))
		if err := r.writePlain("%4d  %+4d  %s%s  %s\n", rec.ID, rec.Score, rec.Name, pad, rec.YouTubeLink); err != nil {
			return err
		}
	}
	return nil
}

func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id %q must be a positive integer", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// Export writes recommendations to a file in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	engine, err := r.openEngine(cmd)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		recs  []models.Recommendation
		title = "Recommendations"
	)
	if top := int(cmd.Int("top")); top > 0 {
		title = fmt.Sprintf("Top %d", top)
		recs, err = engine.GetTop(ctx, top)
	} else {
		recs, err = engine.Get(ctx)
	}
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(format, title, recs, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported recommendations", "format", format, "count", len(recs), "path", path)
	return r.writePlain("✓ Exported %d recommendations to %s\n", len(recs), path)
}
