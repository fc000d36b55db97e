package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
			app := &cli.App{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: level},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			assert.NoError(t, app.Run([]string{"transcripts"}), "level %q", level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		app := &cli.App{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "verbose"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		assert.Error(t, app.Run([]string{"transcripts"}))
	})
}

func TestLoadTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	content := `{
		"id": "mtg-1",
		"title": "Weekly Sync",
		"date": "2025-06-10T15:00:00Z",
		"participants": ["Alice", "Bob"],
		"sentences": [
			{"speaker_id": "s1", "speaker_name": "Alice", "text": "Hello everyone.", "start_time": 0, "end_time": 2.5},
			{"speaker_id": "s2", "speaker_name": "Bob", "text": "Hi Alice.", "start_time": 2.5, "end_time": 4}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	meeting, sentences, err := loadTranscript(path)
	require.NoError(t, err)

	assert.Equal(t, "mtg-1", meeting.ID)
	assert.Equal(t, "Weekly Sync", meeting.Title)
	assert.Equal(t, []string{"Alice", "Bob"}, meeting.Participants)

	require.Len(t, sentences, 2)
	assert.Equal(t, "Alice", sentences[0].SpeakerName)
	assert.Equal(t, 2.5, sentences[0].EndTime)
	assert.Equal(t, "Hi Alice.", sentences[1].Text)
}

func TestLoadTranscript_Errors(t *testing.T) {
	_, _, err := loadTranscript(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, _, err = loadTranscript(path)
	assert.Error(t, err)
}
