package core

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier derived from content hashing.
// Identical content always produces the same ID, which lets repeated
// ingestion of the same transcript converge on one meeting record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as fixed-width hex, suitable for use in composite keys.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// Sentence is a single transcribed utterance. Times are monotonic within a
// transcript; the unit (seconds or milliseconds) must be consistent across
// one transcript.
type Sentence struct {
	SpeakerID   string
	SpeakerName string
	Text        string
	StartTime   float64
	EndTime     float64
}

// SpeakerSet is a set of speaker identifiers with a canonical sorted-list
// serialization.
type SpeakerSet struct {
	members map[string]struct{}
}

// NewSpeakerSet creates a speaker set containing the given names.
func NewSpeakerSet(names ...string) SpeakerSet {
	s := SpeakerSet{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts a speaker into the set.
func (s *SpeakerSet) Add(name string) {
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	s.members[name] = struct{}{}
}

// Contains reports whether the speaker is in the set.
func (s SpeakerSet) Contains(name string) bool {
	_, ok := s.members[name]
	return ok
}

// Len returns the number of speakers in the set.
func (s SpeakerSet) Len() int {
	return len(s.members)
}

// Sorted returns the members as a sorted slice. This is the canonical form
// used for persistence.
func (s SpeakerSet) Sorted() []string {
	out := make([]string, 0, len(s.members))
	for name := range s.members {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Chunk is a bounded span of contiguous transcript sentences treated as one
// retrievable unit. StartTime and EndTime are the bounds of the first and
// last contained sentence.
type Chunk struct {
	Text          string
	StartTime     float64
	EndTime       float64
	Speakers      SpeakerSet
	SentenceCount int
	TokenCount    int
}

// ChunkID builds the persistent identifier for a chunk within a meeting.
func ChunkID(meetingID string, index int) string {
	return meetingID + "_chunk_" + strconv.Itoa(index)
}

// ChunkRecord is the persisted form of a chunk, joined to its meeting.
type ChunkRecord struct {
	ID         string
	MeetingID  string
	ProjectID  string
	ChunkIndex int
	Text       string
	StartTime  float64
	EndTime    float64
	Speakers   []string // sorted
	CreatedAt  time.Time
}

// ChunkPayload is a hydrated chunk record carrying the meeting and project
// metadata retrieval needs for reranking.
type ChunkPayload struct {
	Record       ChunkRecord
	MeetingTitle string
	MeetingDate  time.Time
	ProjectTitle string
}

// RetrievedChunk is a chunk returned from the retrieval pipeline. Score is a
// dimensionless relevance value; after reranking it is not bounded to [0,1].
type RetrievedChunk struct {
	ID          string
	Text        string
	Score       float32
	MeetingID   string
	ProjectID   string
	MeetingDate time.Time
	Metadata    map[string]string
}

// Meeting is the transcript-level record a chunking pass belongs to.
type Meeting struct {
	ID           string
	Title        string
	Date         time.Time
	Participants []string
	ProjectID    string
	NeedsReview  bool
	Processed    bool
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// Project is a persisted project record. Deleted projects are excluded from
// profile loading.
type Project struct {
	ID          string
	Title       string
	TeamMembers []string
	Deleted     bool
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// ProjectProfile is the matching view of a project: its title keywords and
// known team-member identifiers. Profiles are reloaded per matching session.
type ProjectProfile struct {
	ID          string
	Title       string
	Keywords    []string
	TeamMembers []string
}

// MatchResult is the outcome of scoring a meeting against one project.
type MatchResult struct {
	ProjectID  string
	Confidence float64
	Reasons    []string
}

// Assignment maps a match confidence to a discrete action: assign, assign
// with review flag, or leave unassigned.
type Assignment struct {
	ProjectID   string
	NeedsReview bool
	Confidence  float64
}

// VectorEntry is a vector plus the metadata the index keeps alongside it.
type VectorEntry struct {
	ID        string
	Vector    []float32
	MeetingID string
	ProjectID string
}

// VectorMatch is a nearest-neighbor hit from the vector index, ranked
// descending by similarity.
type VectorMatch struct {
	ID    string
	Score float32
}
