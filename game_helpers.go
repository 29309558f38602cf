package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol-spaceships/model"
	"github.com/sheikhrachel/go-gol-spaceships/patterns"
	"github.com/sheikhrachel/go-gol-spaceships/utils"
)

// initializeGame builds the grid and stamps every enabled pattern onto it
func initializeGame(config utils.Config) (*model.Grid, []string, error) {
	opts := []model.Option{model.WithWorkers(config.Workers)}
	if config.UseMemoryPool {
		opts = append(opts, model.WithPool(model.NewMatrixPool()))
	}
	grid := model.NewGrid(config.Width, config.Height, opts...)

	var placed []string
	for _, ref := range config.EnabledPatterns() {
		p, err := patterns.Resolve(ref.Name, config.PatternDir)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "[initializeGame] failed to load pattern %q", ref.Name)
		}

		anchor := p.Origin()
		if ref.Anchor != nil {
			anchor = *ref.Anchor
		}
		if err = patterns.Stamp(grid, p, anchor); err != nil {
			return nil, nil, errors.Wrapf(err, "[initializeGame] failed to place pattern %q", ref.Name)
		}
		placed = append(placed, ref.Name)
	}

	return grid, placed, nil
}

// newRenderer picks the display sink. The screen renderer calls cancel when
// the user presses a quit key, since the terminal no longer delivers SIGINT.
func newRenderer(config utils.Config, out io.Writer, cancel func()) (model.Renderer, error) {
	switch config.Display {
	case utils.DisplayScreen:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, errors.Wrap(err, "[newRenderer] failed to open terminal screen")
		}
		renderer, err := model.NewScreenRenderer(screen, config.DeadGlyph, config.LiveGlyph)
		if err != nil {
			return nil, err
		}
		go renderer.WatchKeys(cancel)
		return renderer, nil
	default:
		return model.NewTerminalRenderer(out, config.DeadGlyph, config.LiveGlyph), nil
	}
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, grid *model.Grid, placed []string) {
	names := "none"
	if len(placed) > 0 {
		names = strings.Join(placed, ", ")
	}
	fmt.Fprintf(out, "Grid: %dx%d | Patterns: %s | Initial living cells: %d\n",
		grid.Width(), grid.Height(), names, grid.Population())
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
}

// displayGameStatus shows the status line under a frame
func displayGameStatus(out io.Writer, generation int, grid *model.Grid, stats *utils.Stats) {
	living := grid.Population()
	density := float64(living) / float64(grid.Width()*grid.Height()) * 100
	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | %.1f gen/sec | Runtime: %.1fs\n",
		generation, living, density, stats.GenerationsPerSecond, stats.Runtime().Seconds())
}

// runGame renders the grid, waits for the frame delay and advances, until
// ctx is done or the configured generation limit has been displayed
func runGame(
	ctx context.Context,
	config utils.Config,
	grid *model.Grid,
	renderer model.Renderer,
	status io.Writer,
) (*utils.Stats, error) {
	var (
		stats         = utils.NewStats()
		generation    = 0
		lastFrameTime = time.Now()
	)

	for {
		frameStart := time.Now()
		var elapsed time.Duration
		if generation > 0 {
			elapsed = frameStart.Sub(lastFrameTime)
		}
		stats.Update(generation, grid.Population(), elapsed)
		lastFrameTime = frameStart

		if err := renderer.Clear(); err != nil {
			return stats, err
		}
		if err := renderer.Display(generation, grid); err != nil {
			return stats, err
		}
		displayGameStatus(status, generation, grid, stats)

		if config.MaxGenerations > 0 && generation >= config.MaxGenerations {
			return stats, nil
		}

		select {
		case <-ctx.Done():
			return stats, nil
		case <-time.After(config.FrameDelay()):
		}

		grid.Advance()
		generation++
	}
}
