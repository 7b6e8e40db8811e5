// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/paper-insights/internal/wordcloud"
	"github.com/pdiddy/paper-insights/pkg/types"
)

var (
	// Phrase delimiters: sentence punctuation, brackets, quotes and
	// free-standing dashes.
	delimiterPattern = regexp.MustCompile(`[.!?,;:()\[\]{}"\x{201C}\x{201D}\x{2018}\x{2019}\x{2013}\x{2014}\t\n]|\s-\s`)
	wordPattern      = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}'-]*`)
)

// Rank scores every candidate phrase of text with RAKE and returns them
// highest score first. Equal scores are ordered alphabetically so the
// output does not depend on map iteration.
//
// Candidates are the runs of words between delimiters and stop words. A
// word scores (degree + frequency) / frequency, where degree counts the
// other words it co-occurs with across candidates; a phrase scores the
// sum of its words.
func Rank(text string) []types.Keyword {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	phrases := candidates(strings.ToLower(text))
	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, p := range phrases {
		for _, w := range p {
			freq[w]++
			degree[w] += len(p) - 1
		}
	}

	seen := make(map[string]bool)
	var kws []types.Keyword
	for _, p := range phrases {
		phrase := strings.Join(p, " ")
		if seen[phrase] {
			continue
		}
		seen[phrase] = true

		var score float64
		for _, w := range p {
			score += float64(degree[w]+freq[w]) / float64(freq[w])
		}
		kws = append(kws, types.Keyword{Phrase: phrase, Score: score})
	}
	sort.SliceStable(kws, func(i, j int) bool {
		if kws[i].Score != kws[j].Score {
			return kws[i].Score > kws[j].Score
		}
		return kws[i].Phrase < kws[j].Phrase
	})
	return kws
}

// candidates splits lowercased text into phrases of content words.
func candidates(text string) [][]string {
	var phrases [][]string
	for _, chunk := range delimiterPattern.Split(text, -1) {
		var cur []string
		flush := func() {
			if len(cur) > 0 {
				phrases = append(phrases, cur)
				cur = nil
			}
		}
		for _, w := range wordPattern.FindAllString(chunk, -1) {
			w = strings.TrimRight(w, "'-")
			if w == "" || wordcloud.IsStopWord(w) || numeric(w) {
				flush()
				continue
			}
			cur = append(cur, w)
		}
		flush()
	}
	return phrases
}

func numeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}

// Top returns at most n keywords of text. Fewer are returned when text
// has fewer candidate phrases.
func Top(text string, n int) []types.Keyword {
	kws := Rank(text)
	if n >= 0 && len(kws) > n {
		kws = kws[:n]
	}
	return kws
}
