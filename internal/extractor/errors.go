package extractor

import (
	"errors"
	"fmt"
)

// ErrFetchUnsupported is returned by backends that can only resolve links,
// never bytes. The download handler degrades to link generation on it.
var ErrFetchUnsupported = errors.New("backend cannot fetch media directly")

// ErrNoVideoID indicates no video identifier could be derived from the URL.
var ErrNoVideoID = errors.New("no video ID found in URL")

// ExtractError wraps an underlying oracle failure with the URL it was
// extracting. The message is surfaced to clients verbatim.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
