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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted record types. Field order is part of the
// stored format; appending fields is safe, reordering is not.

var (
	IDMUS          = idMUS{}
	ChunkRecordMUS = chunkRecordMUS{}
	MeetingMUS     = meetingMUS{}
	ProjectMUS     = projectMUS{}
	VectorEntryMUS = vectorEntryMUS{}

	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	float32SliceMUS = ord.NewSliceSer[float32](raw.Float32)
)

// timeMUS stores a time.Time as microseconds since the Unix epoch. Sub-micro
// precision is dropped; decoded values are always UTC.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

var timeSer = timeMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type chunkRecordMUS struct{}

func (chunkRecordMUS) Marshal(v ChunkRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.MeetingID, bs[n:])
	n += ord.String.Marshal(v.ProjectID, bs[n:])
	n += varint.PositiveInt.Marshal(v.ChunkIndex, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += raw.Float64.Marshal(v.StartTime, bs[n:])
	n += raw.Float64.Marshal(v.EndTime, bs[n:])
	n += stringSliceMUS.Marshal(v.Speakers, bs[n:])
	n += timeSer.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (chunkRecordMUS) Unmarshal(bs []byte) (v ChunkRecord, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.MeetingID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProjectID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ChunkIndex, n1, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.StartTime, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.EndTime, n1, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Speakers, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	return v, n + n1, nil
}

func (chunkRecordMUS) Size(v ChunkRecord) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.MeetingID)
	size += ord.String.Size(v.ProjectID)
	size += varint.PositiveInt.Size(v.ChunkIndex)
	size += ord.String.Size(v.Text)
	size += raw.Float64.Size(v.StartTime)
	size += raw.Float64.Size(v.EndTime)
	size += stringSliceMUS.Size(v.Speakers)
	size += timeSer.Size(v.CreatedAt)
	return size
}

type meetingMUS struct{}

func (meetingMUS) Marshal(v Meeting, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += timeSer.Marshal(v.Date, bs[n:])
	n += stringSliceMUS.Marshal(v.Participants, bs[n:])
	n += ord.String.Marshal(v.ProjectID, bs[n:])
	n += ord.Bool.Marshal(v.NeedsReview, bs[n:])
	n += ord.Bool.Marshal(v.Processed, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (meetingMUS) Unmarshal(bs []byte) (v Meeting, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Date, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Participants, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProjectID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.NeedsReview, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Processed, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	return v, n + n1, nil
}

func (meetingMUS) Size(v Meeting) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += timeSer.Size(v.Date)
	size += stringSliceMUS.Size(v.Participants)
	size += ord.String.Size(v.ProjectID)
	size += ord.Bool.Size(v.NeedsReview)
	size += ord.Bool.Size(v.Processed)
	size += timeSer.Size(v.InsertedAt)
	size += timeSer.Size(v.UpdatedAt)
	return size
}

type projectMUS struct{}

func (projectMUS) Marshal(v Project, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += stringSliceMUS.Marshal(v.TeamMembers, bs[n:])
	n += ord.Bool.Marshal(v.Deleted, bs[n:])
	n += timeSer.Marshal(v.InsertedAt, bs[n:])
	n += timeSer.Marshal(v.UpdatedAt, bs[n:])
	return n
}

func (projectMUS) Unmarshal(bs []byte) (v Project, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TeamMembers, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Deleted, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	return v, n + n1, nil
}

func (projectMUS) Size(v Project) (size int) {
	size = ord.String.Size(v.ID)
	size += ord.String.Size(v.Title)
	size += stringSliceMUS.Size(v.TeamMembers)
	size += ord.Bool.Size(v.Deleted)
	size += timeSer.Size(v.InsertedAt)
	size += timeSer.Size(v.UpdatedAt)
	return size
}

type vectorEntryMUS struct{}

func (vectorEntryMUS) Marshal(v VectorEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += float32SliceMUS.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.MeetingID, bs[n:])
	n += ord.String.Marshal(v.ProjectID, bs[n:])
	return n
}

func (vectorEntryMUS) Unmarshal(bs []byte) (v VectorEntry, n int, err error) {
	var n1 int
	if v.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.MeetingID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProjectID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	return v, n + n1, nil
}

func (vectorEntryMUS) Size(v VectorEntry) (size int) {
	size = ord.String.Size(v.ID)
	size += float32SliceMUS.Size(v.Vector)
	size += ord.String.Size(v.MeetingID)
	size += ord.String.Size(v.ProjectID)
	return size
}
