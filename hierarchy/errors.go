package hierarchy

import "errors"

var (
	ErrNodeRepositoryRequired   = errors.New("node repository is required")
	ErrStatusRepositoryRequired = errors.New("run status repository is required")
	ErrSummarizerRequired       = errors.New("summarizer is required")
	ErrNoDocuments              = errors.New("batch has no documents to process")
)
