package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/maka/internal/formatter"
	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/shared"
)

// Search runs a title search and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	engine, err := r.browseEngine()
	if err != nil {
		return err
	}

	r.logger.Debug("searching catalog", "query", query)
	if _, err := engine.Search(ctx, query); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return r.writeMovies(cmd, fmt.Sprintf("Results for %q", query), engine.Snapshot().Results)
}

// Genres prints the catalog's genre list.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.browseEngine()
	if err != nil {
		return err
	}

	categories, err := engine.LoadCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(categories, false)
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(categories)))
	for _, c := range categories {
		r.writePlain("%6d  %s\n", c.ID, c.Name)
	}
	return nil
}

// Discover prints the most popular movies for a genre given by id or name.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.StringArg("genre")
	if genre == "" {
		return fmt.Errorf("%w: genre id or name", shared.ErrMissingArgument)
	}

	engine, err := r.browseEngine()
	if err != nil {
		return err
	}

	if _, err := engine.LoadCategories(ctx); err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}
	category, err := engine.FindCategory(genre)
	if err != nil {
		return err
	}

	r.logger.Debug("discovering genre", "id", category.ID, "name", category.Name)
	if _, err := engine.Discover(ctx, category); err != nil {
		return fmt.Errorf("discover failed: %w", err)
	}

	return r.writeMovies(cmd, category.Heading(), engine.Snapshot().Results)
}

// writeMovies prints a result set as JSON (--json), as an export (--format/--output) or as a plain listing.
func (r *Runner) writeMovies(cmd *cli.Command, heading string, movies []models.Movie) error {
	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	name, output := cmd.String("format"), cmd.String("output")
	if name == "" && output == "" {
		r.writePlainHeader(heading)
		if len(movies) == 0 {
			return r.writePlain("No movies found.\n")
		}
		for _, m := range movies {
			r.writePlain("• %s (%s) [id %d]\n", m.Title, m.ReleaseLabel(), m.ID)
			r.writePlain("  %s\n", m.OverviewText())
		}
		return nil
	}

	if name == "" {
		name = string(formatter.FormatJSON)
	}
	format, err := formatter.ParseFormat(name)
	if err != nil {
		return err
	}
	data, err := formatter.ExportMovies(movies, format)
	if err != nil {
		return err
	}
	return r.emit(data, output)
}

// emit writes data to path, or to the runner's output when path is empty.
func (r *Runner) emit(data []byte, path string) error {
	if path == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteFile(path, data); err != nil {
		return err
	}
	r.logger.Info("export written", "path", path, "bytes", len(data))
	return nil
}
