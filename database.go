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

// Package transcripts ties the storage, AI, matching, chunking, and
// retrieval layers into one database handle over a single BadgerDB file.
package transcripts

import (
	"context"
	"log/slog"

	"github.com/MeganHarrison/fireflies-transcripts/ai"
	"github.com/MeganHarrison/fireflies-transcripts/ai/openai"
	"github.com/MeganHarrison/fireflies-transcripts/ingestion"
	"github.com/MeganHarrison/fireflies-transcripts/matching"
	"github.com/MeganHarrison/fireflies-transcripts/retrieval"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
	"github.com/MeganHarrison/fireflies-transcripts/storage/badger"
)

type Database struct {
	stores   *badger.Stores
	index    storage.VectorIndex
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	index    storage.VectorIndex
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built AI provider, bypassing the OpenAI
// provider construction. Intended for tests and custom backends.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithVectorIndex replaces the embedded vector index with an external one,
// such as a Qdrant collection. The database takes ownership and closes it.
func WithVectorIndex(index storage.VectorIndex) DatabaseOption {
	return func(o *databaseOptions) {
		o.index = index
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	stores, err := badger.OpenStores(filePath)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			stores.Close()
			return nil, err
		}
	}

	index := options.index
	if index == nil {
		index = stores.Index
	}

	return &Database{
		stores:   stores,
		index:    index,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// An external index closes separately from the shared backend.
	if db.index != db.stores.Index {
		if err := db.index.Close(); err != nil {
			db.logger.Error("error closing vector index", "err", err)
		}
	}

	if err := db.stores.Close(); err != nil {
		db.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MeetingRepository() storage.MeetingRepository {
	return db.stores.Meetings
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.stores.Chunks
}

func (db *Database) ProjectRepository() storage.ProjectRepository {
	return db.stores.Projects
}

func (db *Database) VectorIndex() storage.VectorIndex {
	return db.index
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.stores.Meetings, db.stores.Chunks, db.stores.Projects, db.index, db.provider, opts...)
}

func (db *Database) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(db.stores.Chunks, db.index, db.provider, opts...)
}

// NewMatcher builds a matcher over the current set of projects.
func (db *Database) NewMatcher(ctx context.Context) (*matching.Matcher, error) {
	profiles, err := matching.LoadProfiles(ctx, db.stores.Projects)
	if err != nil {
		return nil, err
	}
	return matching.NewMatcher(profiles, matching.WithLogger(db.logger)), nil
}
