// Package qdrant provides a storage.VectorIndex backed by a remote Qdrant
// instance, for corpora too large for the local brute-force index.
package qdrant
