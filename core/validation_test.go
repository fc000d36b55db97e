package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSentence(t *testing.T) {
	tests := []struct {
		name     string
		sentence *Sentence
		wantErr  error
	}{
		{
			name: "valid sentence",
			sentence: &Sentence{
				SpeakerName: "Alice",
				Text:        "Let's review the budget.",
				StartTime:   10,
				EndTime:     14,
			},
			wantErr: nil,
		},
		{
			name:     "nil sentence",
			sentence: nil,
			wantErr:  ErrInvalidSentence,
		},
		{
			name: "empty text",
			sentence: &Sentence{
				SpeakerName: "Alice",
				StartTime:   10,
				EndTime:     14,
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "end before start",
			sentence: &Sentence{
				Text:      "Backwards in time.",
				StartTime: 14,
				EndTime:   10,
			},
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "missing speaker is allowed",
			sentence: &Sentence{
				Text:      "Unattributed speech.",
				StartTime: 0,
				EndTime:   2,
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSentence(tt.sentence)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSentence() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSentence() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMeeting(t *testing.T) {
	tests := []struct {
		name    string
		meeting *Meeting
		wantErr error
	}{
		{
			name: "valid meeting",
			meeting: &Meeting{
				ID:    "mtg-1",
				Title: "Weekly Sync",
				Date:  time.Now().UTC(),
			},
			wantErr: nil,
		},
		{
			name:    "nil meeting",
			meeting: nil,
			wantErr: ErrInvalidMeeting,
		},
		{
			name: "missing id",
			meeting: &Meeting{
				Title: "Weekly Sync",
			},
			wantErr: ErrEmptyID,
		},
		{
			name: "missing title",
			meeting: &Meeting{
				ID: "mtg-1",
			},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMeeting(tt.meeting)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMeeting() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMeeting() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunkRecord(t *testing.T) {
	valid := func() *ChunkRecord {
		return &ChunkRecord{
			ID:         ChunkID("mtg-1", 0),
			MeetingID:  "mtg-1",
			ChunkIndex: 0,
			Text:       "Alice: Let's review the budget.",
		}
	}

	t.Run("valid record", func(t *testing.T) {
		if err := ValidateChunkRecord(valid()); err != nil {
			t.Errorf("ValidateChunkRecord() = %v, want nil", err)
		}
	})

	t.Run("nil record", func(t *testing.T) {
		if err := ValidateChunkRecord(nil); !errors.Is(err, ErrInvalidChunkRecord) {
			t.Errorf("ValidateChunkRecord(nil) = %v, want ErrInvalidChunkRecord", err)
		}
	})

	t.Run("missing meeting id", func(t *testing.T) {
		record := valid()
		record.MeetingID = ""
		if err := ValidateChunkRecord(record); !errors.Is(err, ErrEmptyID) {
			t.Errorf("ValidateChunkRecord() = %v, want ErrEmptyID", err)
		}
	})

	t.Run("negative index", func(t *testing.T) {
		record := valid()
		record.ChunkIndex = -1
		if err := ValidateChunkRecord(record); !errors.Is(err, ErrInvalidChunkRecord) {
			t.Errorf("ValidateChunkRecord() = %v, want ErrInvalidChunkRecord", err)
		}
	})
}
