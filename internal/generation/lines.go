package generation

import (
	"regexp"
	"strconv"
	"strings"
)

// lineBreak separates the lines of a raw block.
const lineBreak = "\n"

// numberPrefix matches a leading "N." numbering prefix and any whitespace after it.
var numberPrefix = regexp.MustCompile(`^\d+\.\s*`)

// Normalize returns the content of a single line: surrounding whitespace is
// trimmed and any leading "N. " numbering is removed. Stacked prefixes such as
// "1. 2. text" are removed together so that Normalize is idempotent.
func Normalize(line string) string {
	content := strings.TrimSpace(line)
	for {
		loc := numberPrefix.FindStringIndex(content)
		if loc == nil {
			return content
		}
		content = strings.TrimSpace(content[loc[1]:])
	}
}

// Renumber rewrites a raw block so that every non-blank line carries a running
// "N. " prefix starting at 1. Blank lines are kept as empty separators and are
// never numbered, so the number of lines is unchanged.
func Renumber(raw string) string {
	lines := strings.Split(raw, lineBreak)
	counter := 0
	for i, line := range lines {
		content := Normalize(line)
		if content == "" {
			lines[i] = ""
			continue
		}
		counter++
		lines[i] = formatNumbered(counter, content)
	}
	return strings.Join(lines, lineBreak)
}

// SplitLines splits a raw block into normalized line contents.
//
// In strict mode (align=false) blank lines are dropped and the result holds only
// content lines in their original order. In aligned mode every source line is
// kept, including empty ones, one-to-one with its original position.
func SplitLines(raw string, align bool) []string {
	lines := strings.Split(raw, lineBreak)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		content := Normalize(line)
		if !align && content == "" {
			continue
		}
		out = append(out, content)
	}
	return out
}

// Number formats content lines as a numbered raw block, one "N. content" line
// per entry. It is the inverse of strict SplitLines for already-normalized
// content and is used to load stored lists back into an editor.
func Number(contents []string) string {
	return Renumber(strings.Join(contents, lineBreak))
}

func formatNumbered(n int, content string) string {
	return strconv.Itoa(n) + ". " + content
}
