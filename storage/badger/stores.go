package badger

import "github.com/MeganHarrison/fireflies-transcripts/storage"

// Stores bundles the repositories and the vector index sharing one BadgerDB
// instance.
type Stores struct {
	Meetings storage.MeetingRepository
	Chunks   storage.ChunkRepository
	Projects storage.ProjectRepository
	Index    storage.VectorIndex

	backend *Backend
}

// OpenStores opens a BadgerDB database at path and builds the repositories
// over it. Caller must Close when done.
func OpenStores(path string) (*Stores, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newStores(backend), nil
}

func newStores(backend *Backend) *Stores {
	return &Stores{
		Meetings: NewMeetingRepository(backend),
		Chunks:   NewChunkRepository(backend),
		Projects: NewProjectRepository(backend),
		Index:    NewVectorIndex(backend),
		backend:  backend,
	}
}

// Close closes the underlying database.
func (s *Stores) Close() error {
	return s.backend.Close()
}
