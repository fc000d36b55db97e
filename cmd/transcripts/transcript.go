package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// transcriptFile is the JSON input format for a meeting transcript, matching
// the shape exported by transcription services.
type transcriptFile struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Date         time.Time          `json:"date"`
	Participants []string           `json:"participants"`
	Sentences    []transcriptedLine `json:"sentences"`
}

type transcriptedLine struct {
	SpeakerID   string  `json:"speaker_id"`
	SpeakerName string  `json:"speaker_name"`
	Text        string  `json:"text"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
}

// loadTranscript reads and converts a transcript JSON file.
func loadTranscript(path string) (*core.Meeting, []core.Sentence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var file transcriptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse transcript: %w", err)
	}

	// Exports without an upstream ID get a stable content-derived one.
	id := file.ID
	if id == "" {
		id = core.IDFromContent(file.Title + file.Date.UTC().String()).String()
	}

	meeting := &core.Meeting{
		ID:           id,
		Title:        file.Title,
		Date:         file.Date,
		Participants: file.Participants,
	}

	sentences := make([]core.Sentence, len(file.Sentences))
	for i, line := range file.Sentences {
		sentences[i] = core.Sentence{
			SpeakerID:   line.SpeakerID,
			SpeakerName: line.SpeakerName,
			Text:        line.Text,
			StartTime:   line.StartTime,
			EndTime:     line.EndTime,
		}
	}
	return meeting, sentences, nil
}
