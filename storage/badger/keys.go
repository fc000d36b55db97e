package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	meetingRecordPrefix = "mtgrec"
	meetingDatePrefix   = "mtgrecd"
	chunkRecordPrefix   = "chkrec"
	chunkMeetingPrefix  = "chkrecm"
	projectRecordPrefix = "projrec"
	vectorEntryPrefix   = "vecrec"
)

// makeMeetingKey generates a key for a meeting record by ID.
func makeMeetingKey(id string) []byte {
	return []byte(meetingRecordPrefix + ":" + id)
}

// makeMeetingDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeMeetingDateKey(date time.Time, id string) []byte {
	prefix := meetingDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialMeetingDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialMeetingDateKey(date time.Time) []byte {
	prefix := meetingDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(date.UnixMicro()))
	return buf
}

// makeChunkKey generates a key for a chunk record by ID.
func makeChunkKey(id string) []byte {
	return []byte(chunkRecordPrefix + ":" + id)
}

// makeChunkMeetingKey generates a composite key for the per-meeting chunk
// index. Format: prefix:meetingID:index
// The index is BigEndian so iteration yields chunks in transcript order.
func makeChunkMeetingKey(meetingID string, index int) []byte {
	prefix := chunkMeetingPrefix + ":" + meetingID + ":"
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makePartialChunkMeetingKey generates the iteration prefix for one meeting's
// chunk index entries.
func makePartialChunkMeetingKey(meetingID string) []byte {
	return []byte(chunkMeetingPrefix + ":" + meetingID + ":")
}

// makeProjectKey generates a key for a project record by ID.
func makeProjectKey(id string) []byte {
	return []byte(projectRecordPrefix + ":" + id)
}

// makeVectorKey generates a key for a vector entry by chunk ID.
func makeVectorKey(id string) []byte {
	return []byte(vectorEntryPrefix + ":" + id)
}
