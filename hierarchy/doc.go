// Package hierarchy builds the multi-level summary tree for a batch of
// documents.
//
// Starting from the level-1 nodes produced by the chunker, each level is
// grouped under a token budget, summarized concurrently on a worker pool,
// and persisted as the next level of the tree. The loop ends when one
// summary remains or the configured depth cap is hit. Run status records
// track every run for later inspection.
package hierarchy
