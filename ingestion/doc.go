// Package ingestion reads source documents from the filesystem so they can
// be chunked and summarized.
//
// The loader walks an input directory recursively, validates that every
// file it reads actually lives inside that directory, and skips empty
// files and hidden entries.
package ingestion
