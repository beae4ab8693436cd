package cmdtypes

import (
	"fmt"
	"slices"
	"strings"
)

// Delimiter separates path segments.
const Delimiter = "/"

const (
	// SelfSegment refers to the current directory.
	SelfSegment = "."
	// ParentSegment refers to the parent directory.
	ParentSegment = ".."
)

// Path is an ordered sequence of non-empty name segments. The zero value is
// the root path. Paths are values; every operation returns a new Path.
type Path struct {
	segments []string
}

// Root returns the empty path.
func Root() Path {
	return Path{}
}

// NewPath builds a path from segments. Empty segments are rejected.
func NewPath(segments ...string) (Path, error) {
	for _, s := range segments {
		if s == "" {
			return Path{}, &AssistError{Kind: ErrorKindInvalidPath, Message: "empty path segment"}
		}
	}
	return Path{segments: slices.Clone(segments)}, nil
}

// ParsePath parses a delimiter separated path. "" and "/" denote the root. A
// single leading and a single trailing delimiter are allowed; an empty segment
// anywhere else makes the path invalid.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.TrimPrefix(raw, Delimiter)
	trimmed = strings.TrimSuffix(trimmed, Delimiter)
	if trimmed == "" {
		if raw == "" || raw == Delimiter {
			return Path{}, nil
		}
		return Path{}, &AssistError{
			Kind:    ErrorKindInvalidPath,
			Message: fmt.Sprintf("invalid path %q", raw),
			Token:   raw,
		}
	}
	segments := strings.Split(trimmed, Delimiter)
	for _, s := range segments {
		if s == "" {
			return Path{}, &AssistError{
				Kind:    ErrorKindInvalidPath,
				Message: fmt.Sprintf("invalid path %q: empty segment", raw),
				Token:   raw,
			}
		}
	}
	return Path{segments: segments}, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether p is the empty path.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Append returns p followed by the segments of other.
func (p Path) Append(other Path) Path {
	out := make([]string, 0, len(p.segments)+len(other.segments))
	out = append(out, p.segments...)
	return Path{segments: append(out, other.segments...)}
}

// Child returns p extended by one segment.
func (p Path) Child(name string) Path {
	return p.Append(Path{segments: []string{name}})
}

// Parent drops the last segment. The root has no parent.
func (p Path) Parent() (Path, error) {
	if p.IsRoot() {
		return Path{}, ErrNoParent
	}
	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1])}, nil
}

// Last returns the final segment, or "" for the root.
func (p Path) Last() string {
	if p.IsRoot() {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// String renders the path in absolute form; the root is "/".
func (p Path) String() string {
	return Delimiter + strings.Join(p.segments, Delimiter)
}
