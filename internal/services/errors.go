package services

import "errors"

var (
	// ErrInvalidGenerations rejects depth bounds that would otherwise mean
	// "unbounded" or "nothing".
	ErrInvalidGenerations = errors.New("max generations must be at least 1")
	ErrNoResolvedFields   = errors.New("no resolved fields provided")
	ErrBatchTooLarge      = errors.New("maximum 100 dogs can be processed at once")
	ErrEmptyCandidate     = errors.New("empty candidate record")
)
