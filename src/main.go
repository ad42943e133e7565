package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"crosswarped.com/xwfill"
	"crosswarped.com/xwfill/internal"
)

type SolveGridRequest struct {
	Structure []string `json:"structure"`
	Words     []string `json:"words"`
	WordScope string   `json:"wordScope"`
	MaxNodes  int64    `json:"maxNodes"`
}

type SolveGridResponse struct {
	Success bool   `json:"success"`
	Grid    string `json:"grid,omitempty"`
	Error   string `json:"error,omitempty"`
}

func getWords(ctx context.Context, scope string) ([]string, error) {
	client, err := bigquery.NewClient(ctx, "xword-x")
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT word_key FROM `xword-x.FirestoreQuery.all_words` WHERE scope = %q", scope)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var words []string
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}
		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		words = append(words, word)
	}
	return words, nil
}

func execute(ctx context.Context, req SolveGridRequest) (string, error) {
	if len(req.Structure) == 0 {
		return "", fmt.Errorf("structure must not be empty")
	}

	rawWords := req.Words
	if req.WordScope != "" {
		scopeWords, err := getWords(ctx, req.WordScope)
		if err != nil {
			return "", fmt.Errorf("getWords: %w", err)
		}
		log.Info().Str("scope", req.WordScope).Int("count", len(scopeWords)).Msg("loaded scope words")
		rawWords = append(rawWords, scopeWords...)
	}
	if len(rawWords) == 0 {
		return "", fmt.Errorf("words must not be empty")
	}

	words, err := internal.ParseWordList(rawWords)
	if err != nil {
		return "", fmt.Errorf("parsing words: %w", err)
	}

	grid, err := xwfill.ParseStructureLines(req.Structure)
	if err != nil {
		return "", fmt.Errorf("parsing structure: %w", err)
	}
	crossword, err := xwfill.BuildCrossword(grid)
	if err != nil {
		return "", fmt.Errorf("building crossword: %w", err)
	}

	timeout := 1 * time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) - 5*time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	solver := xwfill.NewSolver(crossword, words, xwfill.SolverParams{MaxNodes: req.MaxNodes})
	assignment, err := solver.Solve(ctx)
	if err != nil {
		return "", err
	}
	return crossword.Render(assignment), nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func solveGrid(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprintf(w, `{"success": false, "error": "Method %s not allowed"}`, r.Method)
		return
	}

	var req SolveGridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error().Err(err).Msg("parsing JSON body")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(SolveGridResponse{
			Success: false,
			Error:   fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	grid, err := execute(r.Context(), req)

	response := SolveGridResponse{
		Success: err == nil,
		Grid:    grid,
	}
	if errors.Is(err, xwfill.ErrNoSolution) {
		response.Error = "No solution."
	} else if err != nil {
		response.Error = err.Error()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("marshaling response")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"success": false, "error": "Internal server error"}`)
	}
}

func main() {
	funcframework.RegisterHTTPFunction("/solve-grid", solveGrid)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatal().Err(err).Msg("funcframework.StartHostPort")
	}
}
