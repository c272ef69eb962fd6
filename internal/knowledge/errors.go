package knowledge

import (
	"errors"
	"net/http"
)

var (
	// ErrEmptyInput indicates no passage text survived extraction.
	ErrEmptyInput = errors.New("no passage text to index")
	// ErrSplitProducedNothing indicates passage text existed but splitting yielded zero chunks.
	ErrSplitProducedNothing = errors.New("splitting produced no chunks")
	// ErrIndexNotFound indicates no index is available for the category.
	ErrIndexNotFound = errors.New("knowledge index not found")
	// ErrSourceNotFound indicates no raw passage file exists for the category.
	ErrSourceNotFound = errors.New("knowledge source not found")
	// ErrStaleIndex indicates a persisted index was built with a different embedding model.
	ErrStaleIndex = errors.New("knowledge index built with a different embedding model")
	// ErrDimensionMismatch indicates a query vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrEmptyQuery indicates a blank query text.
	ErrEmptyQuery = errors.New("query text must not be empty")
	// ErrNotLoaded indicates startup indexing has not finished.
	ErrNotLoaded = errors.New("knowledge indexes not loaded")
)

// MapHTTPStatus maps knowledge errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrIndexNotFound), errors.Is(err, ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyInput), errors.Is(err, ErrSplitProducedNothing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotLoaded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
