package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dirSuffix(string, struct{}) string { return "/" }

func TestComplete(t *testing.T) {
	tests := []struct {
		name        string
		prefix      string
		words       []string
		decorate    Decorator[struct{}]
		wantMatch   Match
		wantAppend  string
		wantSuggest []string
	}{
		{
			name:        "unique candidate",
			prefix:      "pre",
			words:       []string{"prefix"},
			wantMatch:   MatchUnique,
			wantAppend:  "fix",
			wantSuggest: []string{"prefix"},
		},
		{
			name:        "unique candidate with directory suffix",
			prefix:      "pre",
			words:       []string{"prefix"},
			decorate:    dirSuffix,
			wantMatch:   MatchUnique,
			wantAppend:  "fix/",
			wantSuggest: []string{"prefix"},
		},
		{
			name:        "ambiguous with common prefix",
			prefix:      "pre",
			words:       []string{"prefix1", "prefix2"},
			decorate:    dirSuffix,
			wantMatch:   MatchAmbiguous,
			wantAppend:  "fix",
			wantSuggest: []string{"prefix1", "prefix2"},
		},
		{
			name:        "ambiguous without further text",
			prefix:      "pre",
			words:       []string{"pre1", "pre2"},
			wantMatch:   MatchAmbiguous,
			wantAppend:  "",
			wantSuggest: []string{"pre1", "pre2"},
		},
		{
			name:      "no candidate",
			prefix:    "zed",
			words:     []string{"pre1", "pre2"},
			wantMatch: MatchNone,
		},
		{
			name:        "empty prefix lists everything",
			prefix:      "",
			words:       []string{"b", "a"},
			wantMatch:   MatchAmbiguous,
			wantSuggest: []string{"a", "b"},
		},
		{
			name:        "exact word already typed",
			prefix:      "ls",
			words:       []string{"ls"},
			decorate:    func(string, struct{}) string { return " " },
			wantMatch:   MatchUnique,
			wantAppend:  " ",
			wantSuggest: []string{"ls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Complete(tt.prefix, FromWords(tt.words), tt.decorate)
			assert.Equal(t, tt.wantMatch, c.Match)
			assert.Equal(t, tt.wantAppend, c.Append)
			assert.ElementsMatch(t, tt.wantSuggest, c.Suggestions)
			assert.Equal(t, tt.wantMatch != MatchNone, c.Found())
		})
	}
}

func TestComplete_IsRepeatable(t *testing.T) {
	tr := FromWords([]string{"prefix1", "prefix2"})
	first := Complete("p", tr, nil)
	second := Complete("p", tr, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, tr.Size())
}

func TestMatch_String(t *testing.T) {
	assert.Equal(t, "none", MatchNone.String())
	assert.Equal(t, "unique", MatchUnique.String())
	assert.Equal(t, "ambiguous", MatchAmbiguous.String())
}
