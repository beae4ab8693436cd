package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cmdconsole/pkg/assist"
)

// RunBatch executes r line by line. It stops at the first failing line unless
// keepGoing is set, in which case it reports how many lines failed.
func (c *Console) RunBatch(ctx context.Context, r io.Reader, keepGoing bool) error {
	sc := bufio.NewScanner(r)
	var n, failed int
	for sc.Scan() && !c.exit {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		c.applyPending()
		if err := c.ExecuteLine(ctx, sc.Text()); err != nil {
			if !keepGoing {
				return fmt.Errorf("line %d: %w", n, err)
			}
			failed++
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d line(s) failed", failed)
	}
	return nil
}

// FormatCompletion renders a completion result for the complete subcommand.
func FormatCompletion(c assist.Completion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "line: %q\n", c.Line)
	fmt.Fprintf(&b, "cursor: %d\n", c.Cursor)
	fmt.Fprintf(&b, "match: %s\n", c.Match)
	if len(c.Suggestions) > 0 {
		fmt.Fprintf(&b, "suggestions: %s\n", strings.Join(c.Suggestions, " "))
	}
	if c.Err != nil {
		fmt.Fprintf(&b, "error: %v\n", c.Err)
	}
	return b.String()
}
