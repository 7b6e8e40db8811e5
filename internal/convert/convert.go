// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts plain text from PDF files with pluggable backends.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-insights/internal/container"
	"github.com/pdiddy/paper-insights/pkg/types"
)

// Converter transforms a PDF file into plain text. Different backends
// (native Go parser, pdftotext, markitdown) implement this interface.
// An empty document yields empty text, not an error.
type Converter interface {
	// Convert reads the PDF at pdfPath and returns its text.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// New returns the Converter for cfg.Backend. The empty backend selects
// native. External backends are checked for availability up front;
// cfg.Runtime picks the container runtime for markitdown.
func New(ctx context.Context, cfg types.KeywordsConfig) (Converter, error) {
	switch backend := cfg.Backend; backend {
	case "", types.BackendNative:
		return NativeConverter{}, nil
	case types.BackendPdftotext:
		return NewPdftotextConverter()
	case types.BackendMarkitdown:
		rt, err := container.DetectRuntime(ctx, cfg.Runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", backend)
	}
}
