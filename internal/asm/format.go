package asm

import (
	"strings"
)

const tabWidth = 8

// splitLines splits text on \n or \r\n, dropping the empty string after a
// final newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// expandTabs replaces tabs with spaces up to the next tab stop.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// squashWhitespace collapses runs of horizontal whitespace to one space and
// drops trailing whitespace. Leading whitespace becomes a two-space marker or
// is removed, depending on mode. Applying it twice changes nothing.
func squashWhitespace(line string, mode IndentMode) string {
	fields := strings.FieldsFunc(line, isHorizontalSpace)
	if len(fields) == 0 {
		return ""
	}
	body := strings.Join(fields, " ")
	if mode == IndentMarker && isHorizontalSpace(rune(line[0])) {
		return "  " + body
	}
	return body
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\v' || r == '\f'
}

// formatLine applies the text-level part of the filter to a surviving line.
func formatLine(line string, f Filter) string {
	line = expandTabs(line)
	if !f.Trim {
		return line
	}
	return squashWhitespace(line, f.Indent)
}

// Format re-applies the whitespace part of f to already parsed text, one line
// at a time.
func Format(text string, f Filter) string {
	lines := splitLines(text)
	for i, line := range lines {
		lines[i] = formatLine(line, f)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
