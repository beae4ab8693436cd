package assist

import (
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MaxSuggestions bounds the did-you-mean list attached to errors.
const MaxSuggestions = 5

var dmp = diffmatchpatch.New()

// suggest proposes replacements for an unknown token: the candidates it is a
// prefix of when there are any, otherwise the candidates within a small edit
// distance, closest first.
func suggest(tok string, candidates []string) []string {
	var prefixed []string
	for _, c := range candidates {
		if strings.HasPrefix(c, tok) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) > 0 {
		return limit(prefixed)
	}

	type scored struct {
		word string
		dist int
	}
	threshold := max(1, len([]rune(tok))/3)
	var near []scored
	for _, c := range candidates {
		d := distance(tok, c)
		if d <= threshold {
			near = append(near, scored{c, d})
		}
	}
	sort.Slice(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].word < near[j].word
	})
	out := make([]string, 0, len(near))
	for _, s := range near {
		out = append(out, s.word)
	}
	return limit(out)
}

func distance(a, b string) int {
	return dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
}

func limit(words []string) []string {
	if len(words) > MaxSuggestions {
		return words[:MaxSuggestions]
	}
	if len(words) == 0 {
		return nil
	}
	return words
}
