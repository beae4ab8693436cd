// Package golden compares console transcripts against .expected files.
//
// Expected files may carry placeholders that match variable output:
//
//	{{UUID}}       an invocation id
//	{{TIMESTAMP}}  an RFC 3339 or "2006-01-02 15:04:05" time
//	{{ANY}}        any text on the rest of the match
//
// Setting CMDCONSOLE_UPDATE_GOLDEN=1 rewrites expected files from the actual
// output instead of comparing.
package golden

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

// EnvUpdate turns comparison into regeneration.
const EnvUpdate = "CMDCONSOLE_UPDATE_GOLDEN"

var (
	placeholder = regexp.MustCompile(`\{\{([A-Z]+)\}\}`)

	patterns = map[string]string{
		"UUID":      `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`,
		"TIMESTAMP": `\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`,
		"ANY":       `.*`,
	}
)

// Normalize trims trailing whitespace from every line and trailing blank
// lines from the whole text.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Match reports whether actual satisfies expected line by line.
func Match(expected, actual string) bool {
	want := strings.Split(Normalize(expected), "\n")
	got := strings.Split(Normalize(actual), "\n")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !matchLine(want[i], got[i]) {
			return false
		}
	}
	return true
}

func matchLine(expected, actual string) bool {
	if !placeholder.MatchString(expected) {
		return expected == actual
	}
	var b strings.Builder
	b.WriteString("^")
	last := 0
	for _, loc := range placeholder.FindAllStringSubmatchIndex(expected, -1) {
		b.WriteString(regexp.QuoteMeta(expected[last:loc[0]]))
		if p, ok := patterns[expected[loc[2]:loc[3]]]; ok {
			b.WriteString(p)
		} else {
			b.WriteString(regexp.QuoteMeta(expected[loc[0]:loc[1]]))
		}
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(expected[last:]))
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(actual)
}

// Diff renders a line-level diff of expected against actual.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(Normalize(expected)+"\n", Normalize(actual)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		mark := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark = "- "
		case diffmatchpatch.DiffInsert:
			mark = "+ "
		}
		for l := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			fmt.Fprintf(&out, "%s%s\n", mark, l)
		}
	}
	return out.String()
}

// Assert compares actual against the expected file at path.
func Assert(t testing.TB, path, actual string) {
	t.Helper()
	if os.Getenv(EnvUpdate) == "1" {
		require.NoError(t, os.WriteFile(path, []byte(Normalize(actual)+"\n"), 0o644))
		return
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if !Match(string(data), actual) {
		t.Errorf("%s: transcript differs\n%s", path, Diff(string(data), actual))
	}
}
