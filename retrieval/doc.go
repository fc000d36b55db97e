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

// Package retrieval answers semantic queries over ingested transcript
// chunks.
//
// A Retriever embeds the query, oversamples nearest neighbors from the
// vector index, hydrates the hits with meeting and project metadata, and
// reranks them by recency and lexical overlap before cutting to the
// requested size. Failures in any downstream dependency degrade to an
// empty result instead of an error, so retrieval never interrupts the
// caller.
//
// FindCrossProjectPatterns runs the same search unfiltered and groups the
// hits by project, surfacing the dominant vocabulary of each group.
//
// Usage:
//
//	retriever, err := retrieval.NewRetriever(stores.Chunks, stores.Index, provider)
//	if err != nil {
//		return err
//	}
//	chunks, err := retriever.Retrieve(ctx, "budget overrun risk", "", 5)
package retrieval
