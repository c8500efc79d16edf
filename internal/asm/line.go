// Package asm parses compiler, assembler and disassembler output into a
// cleaned listing that can be correlated with the original source file.
//
// The parser works in two phases. A pre-pass over the whole document decides
// which labels are live, because a label can be used by a line that comes
// after its definition. A second forward pass then classifies, filters and
// formats each line and tracks the current source location.
package asm

import "fmt"

// IndentMode selects how leading whitespace survives Filter.Trim.
type IndentMode int

const (
	// IndentMarker collapses any leading whitespace to a two-space marker.
	IndentMarker IndentMode = iota
	// IndentStrip deletes leading whitespace.
	IndentStrip
)

func (m IndentMode) String() string {
	switch m {
	case IndentMarker:
		return "marker"
	case IndentStrip:
		return "strip"
	default:
		return fmt.Sprintf("IndentMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m IndentMode) MarshalText() ([]byte, error) {
	if m != IndentMarker && m != IndentStrip {
		return nil, fmt.Errorf("invalid indent mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *IndentMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "marker", "":
		*m = IndentMarker
	case "strip":
		*m = IndentStrip
	default:
		return fmt.Errorf("invalid indent mode %q, want marker or strip", text)
	}
	return nil
}

// Filter controls which lines are kept and how they are formatted.
type Filter struct {
	Trim             bool       `json:"trim"`
	Binary           bool       `json:"binary"`
	StripCommentOnly bool       `json:"commentOnly"`
	StripDirectives  bool       `json:"directives"`
	StripDeadLabels  bool       `json:"labels"`
	Indent           IndentMode `json:"indent"`
}

// DefaultFilter returns the filter used when nothing is configured.
func DefaultFilter() Filter {
	return Filter{
		Trim:            true,
		StripDirectives: true,
		StripDeadLabels: true,
	}
}

// Source is the source position an instruction was generated from.
// File is empty when the toolchain reported a synthetic path.
type Source struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
}

// LabelRef is a label name and its column span in the rendered text.
// StartCol is 1-based, EndCol is exclusive.
type LabelRef struct {
	Name     string `json:"name"`
	StartCol int    `json:"startCol"`
	EndCol   int    `json:"endCol"`
}

// LineKind tags the variant held by a Line.
type LineKind int

const (
	TextLine LineKind = iota
	BinaryLine
)

func (k LineKind) String() string {
	switch k {
	case TextLine:
		return "text"
	case BinaryLine:
		return "binary"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Line is one output line. Address and Opcodes are only set for BinaryLine.
type Line struct {
	Kind    LineKind   `json:"kind"`
	Text    string     `json:"text"`
	Source  *Source    `json:"source,omitempty"`
	Labels  []LabelRef `json:"labels,omitempty"`
	Address uint64     `json:"address,omitempty"`
	Opcodes string     `json:"opcodes,omitempty"`
}

// Value renders the line including its trailing newline.
func (l Line) Value() string {
	switch l.Kind {
	case BinaryLine:
		return fmt.Sprintf("<%08x> %s\n", l.Address, l.Text)
	default:
		return l.Text + "\n"
	}
}

// Result is the output of a single Process call.
type Result struct {
	Lines []Line `json:"lines"`
	// LabelDefinitions maps a live label to the 1-based index of the line
	// defining it.
	LabelDefinitions map[string]int `json:"labelDefinitions"`
}

// Value renders all lines.
func (r *Result) Value() string {
	n := 0
	for _, l := range r.Lines {
		n += len(l.Text) + 1
	}
	buf := make([]byte, 0, n)
	for _, l := range r.Lines {
		buf = append(buf, l.Value()...)
	}
	return string(buf)
}

func textLine(text string, src *Source, labels []LabelRef) Line {
	return Line{Kind: TextLine, Text: text, Source: src, Labels: labels}
}
