// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import "fmt"

// Retrieval stages named in a RetrievalError.
const (
	OpLookup   = "lookup"
	OpDownload = "download"
	OpExtract  = "extract"
	OpRender   = "render"
)

// RetrievalError reports a failed stage of fetching or processing a paper.
// It wraps the cause, so errors.Is(err, acquire.ErrNotFound) still holds for
// an unknown paper.
type RetrievalError struct {
	PaperID string
	Op      string
	Err     error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.PaperID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
