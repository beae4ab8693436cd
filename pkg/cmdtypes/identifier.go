// Package cmdtypes defines the core types shared by the console engine:
// identifiers, namespace paths, the output sink handed to executors, and the
// structured error taxonomy reported for bad input.
package cmdtypes

import (
	"fmt"
	"regexp"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Identifier names a command, directory or parameter.
type Identifier struct {
	Name        string
	Description string
}

// ValidName reports whether name may be used as an identifier name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// NewIdentifier validates name and returns the identifier. An invalid name is
// a programming error in the command catalog and is reported with
// ErrInvalidName.
func NewIdentifier(name, description string) (Identifier, error) {
	if !ValidName(name) {
		return Identifier{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Identifier{Name: name, Description: description}, nil
}

// MustIdentifier is like NewIdentifier but panics on an invalid name. It is
// meant for identifiers written as literals in Go code.
func MustIdentifier(name, description string) Identifier {
	id, err := NewIdentifier(name, description)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identifier name.
func (i Identifier) String() string {
	return i.Name
}
