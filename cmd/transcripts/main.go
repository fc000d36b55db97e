// Copyright 2025 Alleato Group
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	transcripts "github.com/MeganHarrison/fireflies-transcripts"
	"github.com/MeganHarrison/fireflies-transcripts/ai"
	"github.com/MeganHarrison/fireflies-transcripts/chunking"
	"github.com/MeganHarrison/fireflies-transcripts/config"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/ingestion"
	"github.com/MeganHarrison/fireflies-transcripts/matching"
	"github.com/MeganHarrison/fireflies-transcripts/storage/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "transcripts",
		Usage: "Meeting transcript ingestion and semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest a meeting transcript: match, chunk, embed, and store",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "transcript",
						Aliases:  []string{"t"},
						Usage:    "Path to transcript JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "preset",
						Usage: "Chunking preset (balanced, speaker_aware, dense)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search ingested transcripts",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "project",
						Aliases: []string{"p"},
						Usage:   "Restrict results to one project ID",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results (0 uses the configured default)",
					},
				},
			},
			{
				Name:   "match",
				Usage:  "Score a transcript against all projects without ingesting",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "transcript",
						Aliases:  []string{"t"},
						Usage:    "Path to transcript JSON file",
						Required: true,
					},
				},
			},
			{
				Name:      "patterns",
				Usage:     "Find cross-project discussion patterns for a query",
				ArgsUsage: "<query>",
				Action:    patternsCommand,
			},
			{
				Name:   "add-project",
				Usage:  "Create or update a project",
				Action: addProjectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Project ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Project title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "team",
						Usage: "Comma-separated team member names",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase builds the database handle from the configuration file,
// wiring in an external Qdrant index when configured.
func openDatabase(c *cli.Context) (*transcripts.Database, *config.AppConfig, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.AI.Host),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithEmbeddingDimension(cfg.AI.EmbeddingDimension),
	)

	opts := []transcripts.DatabaseOption{transcripts.WithAIConfig(aiConfig)}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		index, err := qdrant.New(c.Context, cfg.VectorStore.Qdrant.URL,
			cfg.VectorStore.Qdrant.Collection, cfg.AI.EmbeddingDimension)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to qdrant: %w", err)
		}
		opts = append(opts, transcripts.WithVectorIndex(index))
	}

	db, err := transcripts.NewDatabase(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}

func ingestCommand(c *cli.Context) error {
	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	meeting, sentences, err := loadTranscript(c.String("transcript"))
	if err != nil {
		return err
	}

	preset := cfg.Chunking.Preset
	if c.String("preset") != "" {
		preset = c.String("preset")
	}
	chunker, err := chunking.NewPresetChunker(chunking.Preset(preset))
	if err != nil {
		return err
	}

	pipeline, err := db.NewIngestionPipeline(ingestion.WithChunker(chunker))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	result, err := pipeline.Ingest(c.Context, meeting, sentences)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested meeting %s: %d chunks\n", result.MeetingID, result.ChunkCount)
	switch {
	case result.Assignment.ProjectID == "":
		fmt.Println("No project matched")
	case result.Assignment.NeedsReview:
		fmt.Printf("Assigned to %s (confidence %.2f, needs review)\n",
			result.Assignment.ProjectID, result.Assignment.Confidence)
	default:
		fmt.Printf("Assigned to %s (confidence %.2f)\n",
			result.Assignment.ProjectID, result.Assignment.Confidence)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, cfg, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	topK := c.Int("top-k")
	if topK <= 0 {
		topK = cfg.Retrieval.TopK
	}

	retriever, err := db.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	results, err := retriever.Retrieve(c.Context, query, c.String("project"), topK)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No results")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. [%.3f] %s (%s)\n", i+1, result.Score,
			result.Metadata["meeting_title"], result.MeetingDate.Format("2006-01-02"))
		fmt.Println(indent(result.Text, "   "))
	}
	return nil
}

func matchCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	meeting, sentences, err := loadTranscript(c.String("transcript"))
	if err != nil {
		return err
	}

	matcher, err := db.NewMatcher(c.Context)
	if err != nil {
		return fmt.Errorf("failed to build matcher: %w", err)
	}

	texts := make([]string, len(sentences))
	for i, sentence := range sentences {
		texts[i] = sentence.Text
	}

	match := matcher.Match(meeting, strings.Join(texts, " "))
	if match == nil {
		fmt.Println("No project matched")
		return nil
	}

	assignment := matching.DetermineAssignment(match)
	fmt.Printf("Best match: %s (confidence %.2f)\n", match.ProjectID, match.Confidence)
	for _, reason := range match.Reasons {
		fmt.Printf("  - %s\n", reason)
	}
	switch {
	case assignment.ProjectID == "":
		fmt.Println("Decision: leave unassigned")
	case assignment.NeedsReview:
		fmt.Println("Decision: assign, flag for review")
	default:
		fmt.Println("Decision: assign")
	}
	return nil
}

func patternsCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	retriever, err := db.NewRetriever()
	if err != nil {
		return fmt.Errorf("failed to create retriever: %w", err)
	}

	patterns, err := retriever.FindCrossProjectPatterns(c.Context, query)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		fmt.Println("No patterns found")
		return nil
	}

	for _, pattern := range patterns {
		title := pattern.ProjectTitle
		if title == "" {
			title = pattern.ProjectID
		}
		fmt.Printf("%s: %d relevant chunks\n", title, pattern.ChunkCount)
		if len(pattern.Themes) > 0 {
			fmt.Printf("  themes: %s\n", strings.Join(pattern.Themes, ", "))
		}
	}
	return nil
}

func addProjectCommand(c *cli.Context) error {
	db, _, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var team []string
	for _, member := range strings.Split(c.String("team"), ",") {
		if member = strings.TrimSpace(member); member != "" {
			team = append(team, member)
		}
	}

	project, err := db.ProjectRepository().PutProject(c.Context, &core.Project{
		ID:          c.String("id"),
		Title:       c.String("title"),
		TeamMembers: team,
	})
	if err != nil {
		return fmt.Errorf("failed to store project: %w", err)
	}

	fmt.Printf("Stored project %s (%s)\n", project.ID, project.Title)
	return nil
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
