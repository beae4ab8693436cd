// Package trie provides an immutable, persistent prefix tree used as the
// completion index for command, directory and parameter value names.
//
// A Trie never changes after construction. Every transformation (Insert,
// SubTrie, Filter, Union, Map) returns a new Trie that shares the untouched
// parts of the original tree, so tries can be handed to any number of readers
// without synchronization.
package trie

import (
	"iter"
	"strings"
)

// node is one vertex of the tree. A node is never modified once it is
// reachable from a Trie.
type node[V any] struct {
	edges []edge[V] // sorted by rune
	value V
	has   bool
	size  int // number of words stored in this subtree
}

type edge[V any] struct {
	r     rune
	child *node[V]
}

// Trie is an immutable mapping from words to values. The zero value is an
// empty trie ready to use.
type Trie[V any] struct {
	// prefix is the text spelled by the path leading to root. It is non-empty
	// only for tries produced by SubTrie.
	prefix string
	root   *node[V]
}

// Entry is a single word and its value.
type Entry[V any] struct {
	Word  string
	Value V
}

// New returns an empty trie.
func New[V any]() Trie[V] {
	return Trie[V]{}
}

// FromMap builds a trie holding every key of m.
func FromMap[V any](m map[string]V) Trie[V] {
	var t Trie[V]
	for word, v := range m {
		t = t.Insert(word, v)
	}
	return t
}

// FromWords builds a set-like trie from a list of words. Duplicates collapse.
func FromWords(words []string) Trie[struct{}] {
	var t Trie[struct{}]
	for _, w := range words {
		t = t.Insert(w, struct{}{})
	}
	return t
}

// Size returns the number of words in the trie.
func (t Trie[V]) Size() int {
	if t.root == nil {
		return 0
	}
	return t.root.size
}

// IsEmpty reports whether the trie holds no words.
func (t Trie[V]) IsEmpty() bool {
	return t.Size() == 0
}

// Insert returns a trie that additionally maps word to v. An existing value
// for word is replaced in the result. The receiver is left untouched.
func (t Trie[V]) Insert(word string, v V) Trie[V] {
	if strings.HasPrefix(word, t.prefix) {
		return Trie[V]{
			prefix: t.prefix,
			root:   insert(t.root, []rune(word[len(t.prefix):]), v),
		}
	}
	lifted := t.lift("")
	return Trie[V]{root: insert(lifted.root, []rune(word), v)}
}

// Get looks up the value stored for word.
func (t Trie[V]) Get(word string) (V, bool) {
	var zero V
	if !strings.HasPrefix(word, t.prefix) {
		return zero, false
	}
	n := t.root.walk(word[len(t.prefix):])
	if n == nil || !n.has {
		return zero, false
	}
	return n.value, true
}

// Contains reports whether word is stored in the trie.
func (t Trie[V]) Contains(word string) bool {
	_, ok := t.Get(word)
	return ok
}

// SubTrie returns the entries whose word starts with prefix. It returns an
// empty trie when no word matches.
func (t Trie[V]) SubTrie(prefix string) Trie[V] {
	switch {
	case strings.HasPrefix(prefix, t.prefix):
		n := t.root.walk(prefix[len(t.prefix):])
		if n == nil || n.size == 0 {
			return Trie[V]{}
		}
		return Trie[V]{prefix: prefix, root: n}
	case strings.HasPrefix(t.prefix, prefix):
		// Every word already carries t.prefix, which itself starts with prefix.
		return t
	default:
		return Trie[V]{}
	}
}

// LongestCommonPrefix returns the longest string that prefixes every word in
// the trie. An empty trie yields "".
func (t Trie[V]) LongestCommonPrefix() string {
	if t.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.prefix)
	n := t.root
	for !n.has && len(n.edges) == 1 {
		b.WriteRune(n.edges[0].r)
		n = n.edges[0].child
	}
	return b.String()
}

// Filter returns the entries for which keep reports true. Subtrees in which
// nothing is dropped are shared with the receiver.
func (t Trie[V]) Filter(keep func(word string, v V) bool) Trie[V] {
	if t.IsEmpty() {
		return Trie[V]{}
	}
	buf := []rune(t.prefix)
	root := filter(t.root, buf, keep)
	if root == nil {
		return Trie[V]{}
	}
	return Trie[V]{prefix: t.prefix, root: root}
}

// Union returns a trie holding the words of both tries. When a word is
// present in both, either value may end up in the result.
func (t Trie[V]) Union(other Trie[V]) Trie[V] {
	if t.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return t
	}
	common := commonPrefix(t.prefix, other.prefix)
	a, b := t.lift(common), other.lift(common)
	return Trie[V]{prefix: common, root: merge(a.root, b.root)}
}

// Map transforms every value of t with f. Entries for which f returns false
// are dropped from the result.
func Map[V, W any](t Trie[V], f func(word string, v V) (W, bool)) Trie[W] {
	if t.IsEmpty() {
		return Trie[W]{}
	}
	root := mapNode(t.root, []rune(t.prefix), f)
	if root == nil {
		return Trie[W]{}
	}
	return Trie[W]{prefix: t.prefix, root: root}
}

// All iterates over every entry in lexicographic rune order.
func (t Trie[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if t.IsEmpty() {
			return
		}
		t.root.each([]rune(t.prefix), yield)
	}
}

// Words returns every word in the trie.
func (t Trie[V]) Words() []string {
	words := make([]string, 0, t.Size())
	for w := range t.All() {
		words = append(words, w)
	}
	return words
}

// Values returns every value in the trie.
func (t Trie[V]) Values() []V {
	values := make([]V, 0, t.Size())
	for _, v := range t.All() {
		values = append(values, v)
	}
	return values
}

// Entries returns every word with its value.
func (t Trie[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, t.Size())
	for w, v := range t.All() {
		entries = append(entries, Entry[V]{Word: w, Value: v})
	}
	return entries
}

// lift re-roots the trie so that its prefix becomes to, which must be a
// prefix of t.prefix. The missing runes are materialized as a chain of nodes.
func (t Trie[V]) lift(to string) Trie[V] {
	if t.prefix == to || t.root == nil {
		return Trie[V]{prefix: to, root: t.root}
	}
	chain := []rune(t.prefix[len(to):])
	n := t.root
	for i := len(chain) - 1; i >= 0; i-- {
		n = &node[V]{edges: []edge[V]{{r: chain[i], child: n}}, size: n.size}
	}
	return Trie[V]{prefix: to, root: n}
}

func (n *node[V]) walk(rest string) *node[V] {
	for _, r := range rest {
		if n == nil {
			return nil
		}
		n = n.child(r)
	}
	return n
}

func (n *node[V]) child(r rune) *node[V] {
	if i, ok := n.find(r); ok {
		return n.edges[i].child
	}
	return nil
}

// find returns the index of the edge for r, or the insertion index.
func (n *node[V]) find(r rune) (int, bool) {
	lo, hi := 0, len(n.edges)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.edges[mid].r < r {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(n.edges) && n.edges[lo].r == r
}

func (n *node[V]) each(buf []rune, yield func(string, V) bool) bool {
	if n.has && !yield(string(buf), n.value) {
		return false
	}
	for _, e := range n.edges {
		if !e.child.each(append(buf, e.r), yield) {
			return false
		}
	}
	return true
}

func insert[V any](n *node[V], rest []rune, v V) *node[V] {
	var c node[V]
	if n != nil {
		c = *n
	}
	if len(rest) == 0 {
		c.value, c.has = v, true
		c.size = recount(&c)
		return &c
	}
	edges := make([]edge[V], len(c.edges), len(c.edges)+1)
	copy(edges, c.edges)
	i, ok := c.find(rest[0])
	if ok {
		edges[i].child = insert(edges[i].child, rest[1:], v)
	} else {
		edges = append(edges, edge[V]{})
		copy(edges[i+1:], edges[i:])
		edges[i] = edge[V]{r: rest[0], child: insert[V](nil, rest[1:], v)}
	}
	c.edges = edges
	c.size = recount(&c)
	return &c
}

func filter[V any](n *node[V], buf []rune, keep func(string, V) bool) *node[V] {
	changed := false
	has := n.has
	if has && !keep(string(buf), n.value) {
		has, changed = false, true
	}
	var edges []edge[V]
	for i, e := range n.edges {
		child := filter(e.child, append(buf, e.r), keep)
		if child != e.child && !changed {
			changed = true
			edges = append(edges, n.edges[:i]...)
		}
		if changed && child != nil {
			edges = append(edges, edge[V]{r: e.r, child: child})
		}
	}
	if !changed {
		return n
	}
	c := &node[V]{edges: edges, has: has}
	if has {
		c.value = n.value
	}
	c.size = recount(c)
	if c.size == 0 {
		return nil
	}
	return c
}

func merge[V any](a, b *node[V]) *node[V] {
	switch {
	case a == nil:
		return b
	case b == nil, a == b:
		return a
	}
	c := &node[V]{}
	switch {
	case a.has:
		c.value, c.has = a.value, true
	case b.has:
		c.value, c.has = b.value, true
	}
	c.edges = make([]edge[V], 0, len(a.edges)+len(b.edges))
	i, j := 0, 0
	for i < len(a.edges) || j < len(b.edges) {
		switch {
		case j == len(b.edges) || (i < len(a.edges) && a.edges[i].r < b.edges[j].r):
			c.edges = append(c.edges, a.edges[i])
			i++
		case i == len(a.edges) || b.edges[j].r < a.edges[i].r:
			c.edges = append(c.edges, b.edges[j])
			j++
		default:
			c.edges = append(c.edges, edge[V]{r: a.edges[i].r, child: merge(a.edges[i].child, b.edges[j].child)})
			i++
			j++
		}
	}
	c.size = recount(c)
	return c
}

func mapNode[V, W any](n *node[V], buf []rune, f func(string, V) (W, bool)) *node[W] {
	c := &node[W]{}
	if n.has {
		c.value, c.has = f(string(buf), n.value)
	}
	for _, e := range n.edges {
		if child := mapNode(e.child, append(buf, e.r), f); child != nil {
			c.edges = append(c.edges, edge[W]{r: e.r, child: child})
		}
	}
	c.size = recount(c)
	if c.size == 0 {
		return nil
	}
	return c
}

func recount[V any](n *node[V]) int {
	size := 0
	if n.has {
		size = 1
	}
	for _, e := range n.edges {
		size += e.child.size
	}
	return size
}

func commonPrefix(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	i := 0
	for i < len(ra) && i < len(rb) && ra[i] == rb[i] {
		i++
	}
	return string(ra[:i])
}
