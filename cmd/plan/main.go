package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/passbi/passbi_planner/internal/api"
	applog "github.com/passbi/passbi_planner/internal/logger"
	"github.com/passbi/passbi_planner/internal/planner"
	"github.com/rs/zerolog/log"
)

func main() {
	// Command-line flags
	input := flag.String("input", "", "Path to a plan request JSON file (default: stdin)")
	pretty := flag.Bool("pretty", false, "Indent the JSON result")
	maxTasks := flag.Int("max-tasks", 0, "Maximum number of tasks per request (0 uses the default)")
	maxStations := flag.Int("max-stations", 0, "Maximum number of distinct stations (0 uses the default)")
	timeout := flag.Duration("timeout", 30*time.Second, "Time limit for the computation")
	verbose := flag.Bool("verbose", false, "Log solver statistics to stderr")

	flag.Parse()

	level := "warn"
	if *verbose {
		level = "info"
	}
	applog.Setup("development", level)

	body, err := readInput(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read plan request")
	}

	req, err := api.ParsePlanRequest(body)
	if err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			fmt.Fprintf(os.Stderr, "invalid request: %s\n", reqErr.Message)
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("Failed to parse plan request")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	sol, err := planner.New(planner.Options{MaxTasks: *maxTasks, MaxStations: *maxStations}).Plan(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to plan schedule")
	}

	log.Info().
		Int("tasks", sol.Stats.TaskCount).
		Int("stations", sol.Stats.StationCount).
		Int("connections", sol.Stats.ConnectionCount).
		Int("selected", sol.Stats.SelectedCount).
		Int("unreachable", sol.Stats.UnreachableCount).
		Dur("elapsed", time.Since(start)).
		Msg("Schedule computed")

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(sol.Result); err != nil {
		log.Fatal().Err(err).Msg("Failed to write result")
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("request file not found: %s", path)
	}
	return os.ReadFile(path)
}
