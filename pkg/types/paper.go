// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds the metadata of a paper found in the arXiv index and,
// once downloaded, the path of its local PDF.
type Paper struct {
	// ID is the normalized arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the arXiv subject classes (e.g. "cs.CL").
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Date is the first publication date.
	Date time.Time `json:"date" yaml:"date"`

	// PDFURL is where the PDF body is downloaded from.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// PDFPath is the local filesystem path of the downloaded PDF. It is empty
	// until the paper has been downloaded.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
}

// CategoryRank is one line of a category ranking.
type CategoryRank struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Keyword is a ranked phrase with its relevance score.
type Keyword struct {
	Phrase string  `json:"phrase" yaml:"phrase"`
	Score  float64 `json:"score" yaml:"score"`
}
