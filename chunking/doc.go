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


// Package chunking splits transcript sentence streams into bounded,
// speaker- and time-aware chunks suitable for embedding and retrieval.
//
// Two chunker families are provided behind one interface:
//
//   - TokenChunker: token-budgeted chunking with three methods (sentence,
//     semantic, sliding_window) and optional speaker-boundary preservation.
//   - CharacterChunker: the older character-budgeted variant with a
//     natural-break heuristic, kept selectable for corpora chunked with it.
//
// Chunking is a pure, single-pass computation: no I/O, deterministic, and
// idempotent for identical input and configuration. Empty input yields an
// empty chunk sequence.
//
// Token counting defaults to a cheap length/4 estimate; substitute a real
// tokenizer via WithTokenCounter when exact budgets matter:
//
//	counter, err := chunking.NewTiktokenCounter("gpt-3.5-turbo")
//	chunker, err := chunking.NewTokenChunker(cfg, chunking.WithTokenCounter(counter))
package chunking
