package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crosswarped.com/xwfill"
	"crosswarped.com/xwfill/internal"
)

func main() {
	structureFile := flag.String("structure", "", "The file describing the puzzle structure")
	wordsFile := flag.String("words", "", "The file to load vocabulary words from")
	outFile := flag.String("out", "", "Optional PNG file to save the solved puzzle to")
	timeout := flag.Duration("timeout", 1*time.Minute, "The timeout for the solver")
	maxNodes := flag.Int64("max_nodes", 0, "Abort after expanding this many search nodes (0 = unbounded)")

	profile := flag.Bool("profile", false, "Profile the solver")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *structureFile == "" || *wordsFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: xwfill -structure <file> -words <file> [-out <file.png>]")
		os.Exit(2)
	}

	f, err := os.Open(*structureFile)
	if err != nil {
		log.Fatal().Err(err).Msg("opening structure file")
	}
	grid, err := xwfill.ParseStructure(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("parsing structure")
	}

	words, err := internal.LoadWords(*wordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("loading words")
	}
	log.Info().Int("words", len(words)).Int("height", grid.Height()).Int("width", grid.Width()).Msg("loaded puzzle")

	crossword, err := xwfill.BuildCrossword(grid)
	if err != nil {
		log.Fatal().Err(err).Msg("building crossword")
	}

	if *profile {
		pf, err := os.Create(*profileFile)
		if err != nil {
			log.Fatal().Err(err).Msg("creating profile file")
		}
		defer pf.Close()
		if err := pprof.StartCPUProfile(pf); err != nil {
			log.Fatal().Err(err).Msg("starting CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	solver := xwfill.NewSolver(crossword, words, xwfill.SolverParams{MaxNodes: *maxNodes})
	start := time.Now()
	assignment, err := solver.Solve(ctx)
	if err != nil {
		if errors.Is(err, xwfill.ErrNoSolution) {
			fmt.Println("No solution.")
			os.Exit(1)
		}
		log.Fatal().Err(err).Int64("nodes", solver.Nodes()).Msg("solve aborted")
	}
	log.Info().Dur("elapsed", time.Since(start)).Int64("nodes", solver.Nodes()).Msg("solved")

	fmt.Println(crossword.Render(assignment))

	if *outFile != "" {
		if err := crossword.SaveImage(assignment, *outFile); err != nil {
			log.Fatal().Err(err).Msg("saving image")
		}
		log.Info().Str("file", *outFile).Msg("saved image")
	}
}
