package trie

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func wordSets() map[string][]string {
	return map[string][]string{
		"empty":     {},
		"single":    {"prefix"},
		"siblings":  {"prefix1", "prefix2"},
		"nested":    {"a", "ab", "abc", "abd", "b"},
		"empty key": {"", "x", "xy"},
		"unicode":   {"héllo", "hélium", "hello"},
		"commands":  {"ls", "load", "list", "lsof", "cd", "cat"},
	}
}

func filterPrefix(words []string, p string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, w := range words {
		if strings.HasPrefix(w, p) && !seen[w] {
			out = append(out, w)
			seen[w] = true
		}
	}
	return out
}

func TestFromWords_RoundTrip(t *testing.T) {
	for name, words := range wordSets() {
		t.Run(name, func(t *testing.T) {
			tr := FromWords(words)
			assert.Equal(t, len(words), tr.Size())
			if diff := cmp.Diff(words, tr.Words(), sortStrings, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Words() mismatch (-want +got):\n%s", diff)
			}
			for _, w := range words {
				assert.True(t, tr.Contains(w), "missing %q", w)
			}
		})
	}
}

func TestSubTrie_MatchesPrefixFilter(t *testing.T) {
	prefixes := []string{"", "a", "ab", "abc", "abz", "l", "lo", "ls", "c", "hé", "x", "zzz"}
	for name, words := range wordSets() {
		tr := FromWords(words)
		for _, p := range prefixes {
			t.Run(name+"/"+p, func(t *testing.T) {
				got := tr.SubTrie(p).Words()
				if diff := cmp.Diff(filterPrefix(words, p), got, sortStrings, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("SubTrie(%q) mismatch (-want +got):\n%s", p, diff)
				}
			})
		}
	}
}

func TestSubTrie_Nested(t *testing.T) {
	tr := FromWords([]string{"abc", "abd", "abde", "b"})

	sub := tr.SubTrie("ab")
	assert.Equal(t, 3, sub.Size())

	// Narrowing and widening a subtrie keeps returning words of the original.
	assert.ElementsMatch(t, []string{"abde", "abd"}, sub.SubTrie("abd").Words())
	assert.ElementsMatch(t, sub.Words(), sub.SubTrie("a").Words())
	assert.True(t, sub.SubTrie("b").IsEmpty())

	_, ok := sub.Get("b")
	assert.False(t, ok)
	_, ok = sub.Get("abd")
	assert.True(t, ok)
}

func TestGet(t *testing.T) {
	tr := FromMap(map[string]int{"one": 1, "two": 2, "three": 3})

	v, ok := tr.Get("two")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = tr.Get("tw")
	assert.False(t, ok)
	_, ok = tr.Get("four")
	assert.False(t, ok)
	_, ok = New[int]().Get("")
	assert.False(t, ok)
}

func TestInsert_DoesNotMutate(t *testing.T) {
	base := FromWords([]string{"alpha", "beta"})
	grown := base.Insert("alphabet", struct{}{})

	assert.Equal(t, 2, base.Size())
	assert.Equal(t, 3, grown.Size())
	assert.False(t, base.Contains("alphabet"))

	// Replacing a value keeps the size.
	nums := FromMap(map[string]int{"x": 1})
	replaced := nums.Insert("x", 2)
	v, _ := replaced.Get("x")
	old, _ := nums.Get("x")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, old)
	assert.Equal(t, 1, replaced.Size())
}

func TestInsert_OutsideSubTriePrefix(t *testing.T) {
	sub := FromWords([]string{"cat", "car", "dog"}).SubTrie("ca")
	widened := sub.Insert("dot", struct{}{})
	assert.ElementsMatch(t, []string{"cat", "car", "dot"}, widened.Words())
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{name: "empty", words: nil, want: ""},
		{name: "single", words: []string{"prefix"}, want: "prefix"},
		{name: "siblings", words: []string{"prefix1", "prefix2"}, want: "prefix"},
		{name: "word is prefix of other", words: []string{"pre", "prefix"}, want: "pre"},
		{name: "disjoint", words: []string{"a", "b"}, want: ""},
		{name: "unicode", words: []string{"héllo", "hélium"}, want: "hél"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromWords(tt.words).LongestCommonPrefix())
		})
	}

	sub := FromWords([]string{"load", "list", "lsof"}).SubTrie("lo")
	assert.Equal(t, "load", sub.LongestCommonPrefix())
}

func TestUnion(t *testing.T) {
	sets := wordSets()
	names := make([]string, 0, len(sets))
	for n := range sets {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, a := range names {
		for _, b := range names {
			t.Run(a+"+"+b, func(t *testing.T) {
				ta, tb := FromWords(sets[a]), FromWords(sets[b])
				want := filterPrefix(append(append([]string{}, sets[a]...), sets[b]...), "")

				ab := ta.Union(tb)
				ba := tb.Union(ta)
				if diff := cmp.Diff(want, ab.Words(), sortStrings, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("a∪b mismatch (-want +got):\n%s", diff)
				}
				if diff := cmp.Diff(ab.Words(), ba.Words(), sortStrings, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("union not commutative (-ab +ba):\n%s", diff)
				}
				assert.Equal(t, len(want), ab.Size())
			})
		}
	}
}

func TestUnion_SubTriesWithDifferentPrefixes(t *testing.T) {
	all := FromWords([]string{"cat", "car", "cow", "dog", "dot"})
	u := all.SubTrie("ca").Union(all.SubTrie("do"))
	assert.ElementsMatch(t, []string{"cat", "car", "dog", "dot"}, u.Words())
	assert.Equal(t, 4, u.Size())
	assert.Equal(t, "", u.LongestCommonPrefix())
}

func TestFilter(t *testing.T) {
	tr := FromMap(map[string]int{"a": 1, "ab": 2, "abc": 3, "b": 4})

	even := tr.Filter(func(_ string, v int) bool { return v%2 == 0 })
	assert.ElementsMatch(t, []string{"ab", "b"}, even.Words())
	assert.Equal(t, 4, tr.Size())

	none := tr.Filter(func(string, int) bool { return false })
	assert.True(t, none.IsEmpty())

	all := tr.Filter(func(string, int) bool { return true })
	assert.Same(t, tr.root, all.root, "unchanged filter shares the tree")

	byWord := tr.SubTrie("ab").Filter(func(w string, _ int) bool { return w == "abc" })
	assert.Equal(t, []string{"abc"}, byWord.Words())
}

func TestMap(t *testing.T) {
	tr := FromMap(map[string]int{"one": 1, "two": 2, "three": 3})

	labels := Map(tr, func(w string, v int) (string, bool) {
		if v == 2 {
			return "", false
		}
		return strings.ToUpper(w), true
	})

	assert.Equal(t, 2, labels.Size())
	v, ok := labels.Get("three")
	require.True(t, ok)
	assert.Equal(t, "THREE", v)
	assert.False(t, labels.Contains("two"))

	dropped := Map(tr, func(string, int) (bool, bool) { return false, false })
	assert.True(t, dropped.IsEmpty())
}

func TestAll_StopsEarly(t *testing.T) {
	tr := FromWords([]string{"a", "b", "c", "d"})
	var seen []string
	for w := range tr.All() {
		seen = append(seen, w)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestEntriesAndValues(t *testing.T) {
	tr := FromMap(map[string]int{"x": 10, "y": 20})
	assert.ElementsMatch(t, []int{10, 20}, tr.Values())
	assert.ElementsMatch(t, []Entry[int]{{Word: "x", Value: 10}, {Word: "y", Value: 20}}, tr.Entries())
}
