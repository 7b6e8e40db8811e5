// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wordcloud

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// WordCount is a word and the number of times it occurs.
type WordCount struct {
	Word  string
	Count int
}

var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{N}']*`)

// Frequencies counts the words of text case-insensitively and returns at
// most maxWords of them, most frequent first and alphabetical among equals.
// Stop words, single letters and possessive suffixes are dropped. A
// non-positive maxWords returns every word.
func Frequencies(text string, maxWords int) []WordCount {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tok = strings.TrimSuffix(tok, "'s")
		tok = strings.Trim(tok, "'")
		if utf8.RuneCountInString(tok) < 2 || stopWords[tok] {
			continue
		}
		counts[tok]++
	}

	words := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		words = append(words, WordCount{Word: w, Count: c})
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Word < words[j].Word
	})
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return words
}

// stopWords are common English function words plus boilerplate that fills
// extracted paper text.
var stopWords = toSet(`
a about above after again against all also am an and any are aren't as at
be because been before being below between both but by can can't cannot
could couldn't did didn't do does doesn't doing don't down during each else
ever few for from further get had hadn't has hasn't have haven't having he
he'd he'll he's her here here's hers herself him himself his how how's however
i i'd i'll i'm i've if in into is isn't it it's its itself just let's like
me more most mustn't my myself no nor not of off often on once only or other
otherwise ought our ours ourselves out over own same shall shan't she she'd
she'll she's should shouldn't since so some such than that that's the their
theirs them themselves then there there's therefore these they they'd they'll
they're they've this those through thus to too under until up very was
wasn't we we'd we'll we're we've were weren't what what's when when's where
where's which while who who's whom why why's with won't would wouldn't you
you'd you'll you're you've your yours yourself yourselves
al et fig figure table eq eqs ref refs arxiv doi pp vol section appendix
`)

// IsStopWord reports whether the lowercase word w carries no content.
func IsStopWord(w string) bool { return stopWords[w] }

func toSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(list) {
		set[w] = true
	}
	return set
}
