package asm

import (
	"fmt"
	"strings"
)

// Kind is the coarse classification of a physical input line.
type Kind int

const (
	KindBlank Kind = iota
	KindComment
	KindLabel
	KindData
	KindDirective
	KindInstruction
	KindOther
)

var kindNames = [...]string{"blank", "comment", "label", "data", "directive", "instruction", "other"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Classify returns the kind of every line of an assembler-source document.
func Classify(text string) []Kind {
	lines := splitLines(text)
	c := classifier{detectSyntax(lines)}
	kinds := make([]Kind, len(lines))
	for i, line := range lines {
		kinds[i] = c.classify(line)
	}
	return kinds
}

type classifier struct {
	syntax
}

func (c classifier) classify(line string) Kind {
	switch {
	case strings.TrimSpace(line) == "":
		return KindBlank
	case c.commentOnly(line):
		return KindComment
	}
	if _, _, ok := c.definition(line); ok {
		return KindLabel
	}
	switch {
	case reDataDefn.MatchString(line):
		return KindData
	case c.hasOpcode(line):
		return KindInstruction
	case c.isDirective(line):
		return KindDirective
	}
	return KindOther
}

// labelDef matches a plain `name:` definition at the start of the line.
func (c classifier) labelDef(line string) (name, prefix string, ok bool) {
	m := reLabelDef.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[0], true
}

// definition matches anything that defines a symbol on this line: a label,
// an assignment or the start of a CUDA function.
func (c classifier) definition(line string) (name string, cuda, ok bool) {
	if m := reLabelDef.FindStringSubmatch(line); m != nil {
		return m[1], false, true
	}
	if m := reAssignmentDef.FindStringSubmatch(line); m != nil {
		return m[1], false, true
	}
	if m := reCudaBeginDef.FindStringSubmatch(line); m != nil {
		return m[1], true, true
	}
	return "", false, false
}

// body strips a leading label definition.
func (c classifier) body(line string) string {
	if _, prefix, ok := c.labelDef(line); ok {
		return line[len(prefix):]
	}
	return line
}

func (c classifier) hasOpcode(line string) bool {
	body := stripComment(c.body(line))
	// .inst emits an opcode.
	if reInstOpcode.MatchString(body) {
		return true
	}
	if reAssignmentDef.MatchString(body) {
		return false
	}
	return c.dialect.hasOpcode(body)
}

func (c classifier) isData(line string) bool {
	return reDataDefn.MatchString(c.body(line))
}

func (c classifier) isDirective(line string) bool {
	return reDirective.MatchString(line) && !reInstOpcode.MatchString(line)
}

func (c classifier) definesFunction(line string) bool {
	return reDefinesFunction.MatchString(line)
}

// exported returns the symbol named by a global or weak export directive.
func (c classifier) exported(line string) (string, bool) {
	if m := reDefinesGlobal.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := reDefinesWeak.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	return "", false
}

// identifiers returns every label-like name in a line body, ignoring
// comments and string literals.
func (c classifier) identifiers(body string) []string {
	body = reStringLiteral.ReplaceAllString(stripComment(body), `""`)
	return c.labelFind.FindAllString(body, -1)
}

// references finds label-like names in the operand field of rendered text.
func (c classifier) references(text string) []LabelRef {
	instruction := stripComment(text)
	params := reInstruction.ReplaceAllString(instruction, "")
	removed := len(instruction) - len(params)

	var refs []LabelRef
	for _, loc := range c.labelFind.FindAllStringIndex(params, -1) {
		start := removed + loc[0] + 1
		refs = append(refs, LabelRef{
			Name:     params[loc[0]:loc[1]],
			StartCol: start,
			EndCol:   start + loc[1] - loc[0],
		})
	}
	return refs
}

// unindentLabel strips the indentation of a label definition. Inline
// assembly blocks are re-indented freely by the compiler.
func unindentLabel(line string) string {
	if reIndentedLabel.MatchString(line) {
		return strings.TrimLeft(line, " \t")
	}
	return line
}

func stripComment(line string) string {
	if i := strings.IndexAny(line, "#;"); i >= 0 {
		return line[:i]
	}
	return line
}

type customBlocks struct {
	depth int
}

// track updates the inline-assembly nesting depth for line and reports
// whether the line is inside such a block.
func (b *customBlocks) track(line string) bool {
	switch {
	case reStartAppBlock.MatchString(line) || reStartAsmNesting.MatchString(line):
		b.depth++
	case reEndAppBlock.MatchString(line) || reEndAsmNesting.MatchString(line):
		b.depth--
	}
	return b.depth > 0
}
