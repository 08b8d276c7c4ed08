package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/horrordb/internal/domain/movie"
	"github.com/kailas-cloud/horrordb/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/horrordb/internal/logger"
)

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Run one search and print the movies",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of movies (capped by search.num_results)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		},
		Action: runSearch,
	}
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	env, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if level == "" || level == "debug" || level == "info" {
		// keep stdout readable
		level = "warn"
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return cli.Exit("failed to create logger: "+err.Error(), 2)
	}
	defer func() { _ = logger.Sync() }()

	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		query = cfg.Search.DefaultQuery
	}

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer a.Close()

	req, err := request.New(query, cmd.Int("limit"), a.search.Limits())
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	movies, err := a.search.Search(ctx, &req)
	if err != nil {
		logger.Error("Search failed", zap.Error(err))
		return cli.Exit("search failed: "+err.Error(), 1)
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		return printJSON(out, req.Query(), movies)
	}
	return printTable(out, movies)
}

type searchOutput struct {
	Query   string        `json:"query"`
	Results []movieOutput `json:"results"`
	Count   int           `json:"count"`
}

type movieOutput struct {
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	WikiPage    string `json:"wiki_page"`
	ImageURL    string `json:"image_url"`
}

func printJSON(w io.Writer, query string, movies []movie.Movie) error {
	res := searchOutput{Query: query, Results: make([]movieOutput, len(movies)), Count: len(movies)}
	for i, m := range movies {
		res.Results[i] = movieOutput{
			Title:       m.Title(),
			ReleaseYear: m.ReleaseYear(),
			WikiPage:    m.WikiPage(),
			ImageURL:    m.ImageURL(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func printTable(w io.Writer, movies []movie.Movie) error {
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "No movies matched your search.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TITLE\tYEAR\tWIKI")
	for _, m := range movies {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Title(), m.ReleaseYear(), m.WikiPage())
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
