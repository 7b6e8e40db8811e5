// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidID is returned for identifiers that are not arXiv IDs.
var ErrInvalidID = errors.New("invalid arXiv identifier")

// Base URLs used when the configuration leaves them empty.
const (
	DefaultAPIBase = "https://export.arxiv.org/api/query"
	DefaultPDFBase = "https://arxiv.org/pdf/"
)

// newStylePattern matches "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var newStylePattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// oldStylePattern matches pre-2007 IDs: "hep-th/9901001", "math.GT/0309136v1".
var oldStylePattern = regexp.MustCompile(`^(?:arXiv:)?([a-z\-]+(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?)$`)

// Classify validates an arXiv identifier and returns its normalized form
// with the optional "arXiv:" prefix stripped.
func Classify(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if m := newStylePattern.FindStringSubmatch(identifier); m != nil {
		return m[1], nil
	}
	if m := oldStylePattern.FindStringSubmatch(identifier); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidID, identifier)
}

// Slug returns a filesystem-safe filename stem for a normalized ID.
func Slug(normalized string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(normalized)
}

// PDFURL returns the download URL for a normalized ID under base.
func PDFURL(base, normalized string) string {
	if base == "" {
		base = DefaultPDFBase
	}
	return strings.TrimSuffix(base, "/") + "/" + normalized
}
