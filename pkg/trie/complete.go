package trie

import "strings"

// Match describes how many candidates a completion request found.
type Match int

const (
	// MatchNone means no candidate starts with the prefix.
	MatchNone Match = iota
	// MatchUnique means exactly one candidate starts with the prefix.
	MatchUnique
	// MatchAmbiguous means several candidates start with the prefix.
	MatchAmbiguous
)

// String returns a readable name for the match kind.
func (m Match) String() string {
	switch m {
	case MatchUnique:
		return "unique"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "none"
	}
}

// Completion is the outcome of completing a prefix against a trie.
type Completion struct {
	Match Match
	// Append is the text to add after the prefix. For a unique match it
	// finishes the word and carries its decoration; for an ambiguous match it
	// reaches the longest common prefix and may be empty.
	Append string
	// Suggestions lists the full candidate words.
	Suggestions []string
}

// Found reports whether at least one candidate matched.
func (c Completion) Found() bool {
	return c.Match != MatchNone
}

// Decorator returns the text appended after a uniquely completed word, such
// as "/" for a directory.
type Decorator[V any] func(word string, v V) string

// Complete computes the completion of prefix against the candidates in t.
// decorate may be nil.
func Complete[V any](prefix string, t Trie[V], decorate Decorator[V]) Completion {
	sub := t.SubTrie(prefix)
	switch sub.Size() {
	case 0:
		return Completion{Match: MatchNone}
	case 1:
		e := sub.Entries()[0]
		suffix := strings.TrimPrefix(e.Word, prefix)
		if decorate != nil {
			suffix += decorate(e.Word, e.Value)
		}
		return Completion{Match: MatchUnique, Append: suffix, Suggestions: []string{e.Word}}
	default:
		return Completion{
			Match:       MatchAmbiguous,
			Append:      strings.TrimPrefix(sub.LongestCommonPrefix(), prefix),
			Suggestions: sub.Words(),
		}
	}
}
