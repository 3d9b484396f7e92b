package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/maka/internal/formatter"
	"github.com/desertthunder/maka/internal/shared"
)

// WatchedList prints the watched list in its stored order.
func (r *Runner) WatchedList(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	titles := tracker.Titles()
	if cmd.Bool("json") {
		return r.writeJSON(titles, false)
	}

	r.writePlainHeader(fmt.Sprintf("Watched Movies (%d)", len(titles)))
	for i, title := range titles {
		r.writePlain("%3d. %s\n", i+1, title)
	}
	return nil
}

// WatchedAdd marks a title as watched. Adding a title twice is not an error.
func (r *Runner) WatchedAdd(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	changed, err := tracker.Add(ctx, title, int(cmd.Int("id")))
	if err != nil {
		return fmt.Errorf("failed to save watched list: %w", err)
	}
	if !changed {
		return r.writePlain("%q is already in the watched list\n", title)
	}
	return r.writePlain("✓ Added %q to watched\n", title)
}

// WatchedRemove removes a title. Removing an absent title is not an error.
func (r *Runner) WatchedRemove(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	changed, err := tracker.Remove(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to save watched list: %w", err)
	}
	if !changed {
		return r.writePlain("%q is not in the watched list\n", title)
	}
	return r.writePlain("✓ Removed %q from watched\n", title)
}

// WatchedSort sorts the watched list alphabetically and saves the new order.
func (r *Runner) WatchedSort(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	if err := tracker.Sort(ctx); err != nil {
		return fmt.Errorf("failed to save watched list: %w", err)
	}
	return r.writePlain("✓ Sorted %d titles\n", tracker.Len())
}

// WatchedExport writes the watched list in the requested format to --output or stdout.
func (r *Runner) WatchedExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	data, err := formatter.ExportWatched(tracker.Titles(), format)
	if err != nil {
		return err
	}
	return r.emit(data, cmd.String("output"))
}
