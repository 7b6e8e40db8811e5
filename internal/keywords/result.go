// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-insights/pkg/types"
)

// Result is the keyword summary of one paper.
type Result struct {
	// N is the requested number of keywords; Keywords may hold fewer.
	N        int             `json:"n" yaml:"n"`
	PaperID  string          `json:"paper_id" yaml:"paper_id"`
	Title    string          `json:"title" yaml:"title"`
	Keywords []types.Keyword `json:"keywords" yaml:"keywords"`

	// WordCloud is the path of the rendered image, when one was rendered.
	WordCloud string `json:"wordcloud,omitempty" yaml:"wordcloud,omitempty"`
}

// Phrases returns the keyword phrases in rank order.
func (r Result) Phrases() []string {
	out := make([]string, len(r.Keywords))
	for i, k := range r.Keywords {
		out[i] = k.Phrase
	}
	return out
}

// String renders the text report: a header naming N and the title, then
// one numbered line per keyword.
func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d MAIN KEYWORDS FROM PAPER: \"%s\"\n", r.N, r.Title)
	for i, k := range r.Keywords {
		fmt.Fprintf(&b, "  #%d. %s\n", i+1, k.Phrase)
	}
	return b.String()
}
