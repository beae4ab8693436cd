package cmdtypes

import (
	"errors"
	"strings"
)

// Construction-time errors. They indicate a mistake in the command catalog
// rather than bad user input.
var (
	ErrInvalidName   = errors.New("invalid identifier name")
	ErrDuplicateName = errors.New("duplicate name")
	ErrBuilderFrozen = errors.New("builder already built")
	ErrNoParent      = errors.New("root path has no parent")
)

// ErrorKind classifies a structured error.
type ErrorKind int

const (
	// ErrorKindUnknownDirectory means a path segment names no directory.
	ErrorKindUnknownDirectory ErrorKind = iota + 1
	// ErrorKindUnknownCommand means the command token names no command.
	ErrorKindUnknownCommand
	// ErrorKindEmptyDirectory means a directory has nothing to complete.
	ErrorKindEmptyDirectory
	// ErrorKindInvalidPath means the path uses the delimiter incorrectly.
	ErrorKindInvalidPath
	// ErrorKindMissingMandatoryParam means a required parameter was not given.
	ErrorKindMissingMandatoryParam
	// ErrorKindInvalidParamValue means a value could not be parsed.
	ErrorKindInvalidParamValue
	// ErrorKindDuplicateParamBinding means a parameter was bound twice.
	ErrorKindDuplicateParamBinding
	// ErrorKindUnknownParamName means name=value used an unknown name.
	ErrorKindUnknownParamName
	// ErrorKindTooManyArguments means a positional token had no free slot.
	ErrorKindTooManyArguments
	// ErrorKindExecutionFailed means the executor rejected its input.
	ErrorKindExecutionFailed
	// ErrorKindUnhandled means the executor crashed.
	ErrorKindUnhandled
)

var kindNames = map[ErrorKind]string{
	ErrorKindUnknownDirectory:      "UnknownDirectory",
	ErrorKindUnknownCommand:        "UnknownCommand",
	ErrorKindEmptyDirectory:        "EmptyDirectory",
	ErrorKindInvalidPath:           "InvalidPath",
	ErrorKindMissingMandatoryParam: "MissingMandatoryParam",
	ErrorKindInvalidParamValue:     "InvalidParamValue",
	ErrorKindDuplicateParamBinding: "DuplicateParamBinding",
	ErrorKindUnknownParamName:      "UnknownParamName",
	ErrorKindTooManyArguments:      "TooManyArguments",
	ErrorKindExecutionFailed:       "ExecutionFailed",
	ErrorKindUnhandled:             "Unhandled",
}

// String returns the kind name.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsExecution reports whether the kind describes an executor outcome rather
// than a parse or bind failure.
func (k ErrorKind) IsExecution() bool {
	return k == ErrorKindExecutionFailed || k == ErrorKindUnhandled
}

// AssistError is the structured failure produced while parsing, binding or
// completing a line.
type AssistError struct {
	Kind    ErrorKind
	Message string
	// Token is the offending input token, if any.
	Token string
	// Suggestions are candidate replacements for Token.
	Suggestions []string
}

// Error implements the error interface.
func (e *AssistError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean: ")
		b.WriteString(strings.Join(e.Suggestions, ", "))
		b.WriteString("?)")
	}
	return b.String()
}

// ErrorKind returns e.Kind.
func (e *AssistError) ErrorKind() ErrorKind { return e.Kind }

// Kinded is implemented by errors that carry an ErrorKind.
type Kinded interface {
	error
	ErrorKind() ErrorKind
}

// KindOf extracts the ErrorKind carried by err, or 0 when nothing in its
// chain carries one.
func KindOf(err error) ErrorKind {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
