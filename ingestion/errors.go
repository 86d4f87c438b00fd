package ingestion

import "errors"

var (
	ErrNotADirectory = errors.New("input path is not a directory")
	ErrNoDocuments   = errors.New("no readable documents found")
)
