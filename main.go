package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sheikhrachel/go-gol-spaceships/patterns"
	"github.com/sheikhrachel/go-gol-spaceships/utils"
)

func main() {
	var (
		configPath  = flag.String("config", "config.ini", "path to a .ini or .json configuration file")
		generations = flag.Int("generations", -1, "stop after n generations, 0 runs forever (overrides the config)")
		list        = flag.Bool("list", false, "list the built-in patterns and exit")
	)
	flag.Parse()

	if *list {
		for _, name := range patterns.BuiltinNames() {
			fmt.Println(name)
		}
		return
	}

	if err := run(*configPath, *generations); err != nil {
		log.Fatalf("go-gol-spaceships: %v", err)
	}
}

func run(configPath string, generations int) error {
	config, err := utils.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if generations >= 0 {
		config.MaxGenerations = generations
	}

	grid, placed, err := initializeGame(config)
	if err != nil {
		return err
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := newRenderer(config, os.Stdout, stop)
	if err != nil {
		return err
	}

	var status io.Writer = os.Stdout
	if config.Display == utils.DisplayScreen {
		status = io.Discard
	} else {
		displayGameInfo(os.Stdout, grid, placed)
	}

	stats, err := runGame(ctx, config, grid, renderer, status)
	if closeErr := renderer.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nFinal stats: %d generations in %.1f seconds\n",
		stats.TotalGenerations, stats.Runtime().Seconds())
	fmt.Printf("Average: %.1f gen/sec, %.1f avg population\n",
		stats.GenerationsPerSecond, stats.AveragePopulation)
	return nil
}
