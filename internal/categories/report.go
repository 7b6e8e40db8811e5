// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package categories

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-insights/pkg/types"
)

// Report is the outcome of one ranking run.
type Report struct {
	Year     int
	Top      int
	Column   string
	Ranks    []types.CategoryRank
	Warnings []error
}

// String renders the text report served by the API.
func (r Report) String() string {
	return FormatReport(r.Year, r.Top, r.Ranks)
}

// Labels returns the ranked labels in order.
func (r Report) Labels() []string {
	labels := make([]string, len(r.Ranks))
	for i, rk := range r.Ranks {
		labels[i] = rk.Label
	}
	return labels
}

// WarningMessages returns the warnings as strings, for serialization.
func (r Report) WarningMessages() []string {
	msgs := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		msgs[i] = w.Error()
	}
	return msgs
}

// FormatReport renders a header naming the year followed by one
// "  #<rank>: <label>" line per ranked category.
func FormatReport(year, top int, ranks []types.CategoryRank) string {
	if top <= 0 {
		top = defaultTop
	}
	var b strings.Builder
	fmt.Fprintf(&b, "TOP %d CATEGORIES FOR YEAR %d: \n", top, year)
	for _, rk := range ranks {
		fmt.Fprintf(&b, "  #%d: %s\n", rk.Rank, rk.Label)
	}
	return b.String()
}
