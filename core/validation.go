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


package core

import "fmt"

// ValidateSentence validates a Sentence according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - EndTime must not precede StartTime
//
// NOT validated:
//   - SpeakerID / SpeakerName (transcripts may carry unattributed speech)
func ValidateSentence(sentence *Sentence) error {
	if sentence == nil {
		return fmt.Errorf("%w: sentence is nil", ErrInvalidSentence)
	}

	if sentence.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSentence, ErrEmptyText)
	}

	if sentence.EndTime < sentence.StartTime {
		return fmt.Errorf("%w: %w", ErrInvalidSentence, ErrInvalidTimeRange)
	}

	return nil
}

// ValidateMeeting validates a Meeting according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//
// NOT validated (populated during ingestion):
//   - ProjectID / NeedsReview (set by the matching pass)
//   - Processed (set once chunks are persisted)
func ValidateMeeting(meeting *Meeting) error {
	if meeting == nil {
		return fmt.Errorf("%w: meeting is nil", ErrInvalidMeeting)
	}

	if meeting.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyID)
	}

	if meeting.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMeeting, ErrEmptyText)
	}

	return nil
}

// ValidateChunkRecord validates a ChunkRecord before persistence.
//
// Validation rules:
//   - ID and MeetingID must not be empty
//   - Text must not be empty
//   - ChunkIndex must not be negative
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidChunkRecord)
	}

	if record.ID == "" || record.MeetingID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyID)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunkRecord, ErrEmptyText)
	}

	if record.ChunkIndex < 0 {
		return fmt.Errorf("%w: chunk index %d is negative", ErrInvalidChunkRecord, record.ChunkIndex)
	}

	return nil
}
