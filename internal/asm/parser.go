package asm

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Parser turns raw tool output into a Result. A Parser is immutable once
// built and safe for concurrent use.
type Parser struct {
	hideFunctions *regexp.Regexp
}

// Option configures a Parser.
type Option func(*Parser)

// WithHiddenFunctions hides every function whose name matches re in binary
// listings. A nil re shows all functions.
func WithHiddenFunctions(re *regexp.Regexp) Option {
	return func(p *Parser) {
		p.hideFunctions = re
	}
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process parses text according to f. It never fails: lines it does not
// recognise are passed through or dropped by the filter rules.
func (p *Parser) Process(text string, f Filter) *Result {
	if f.Binary {
		return p.processBinary(text, f)
	}
	return p.processText(text, f)
}

// emitter is the state of one forward pass over an assembler-source document.
type emitter struct {
	classifier
	filter Filter
	used   labelSet
	loc    *locator
	res    *Result

	// prevLabel is set while data lines belong to a live label.
	prevLabel bool
	// inNvccDef is set inside the parameter list of a CUDA function.
	inNvccDef bool
	blocks    customBlocks
}

func (p *Parser) processText(text string, f Filter) *Result {
	if f.StripCommentOnly {
		text = reBlockComment.ReplaceAllString(text, "")
	}
	lines := splitLines(text)
	c := classifier{detectSyntax(lines)}

	e := &emitter{
		classifier: c,
		filter:     f,
		used:       c.findUsedLabels(lines, f.StripDirectives),
		loc:        newLocator(parseFiles(lines), c.dialect),
		res:        &Result{LabelDefinitions: make(map[string]int)},
	}
	for _, line := range lines {
		e.emit(line)
	}

	removeUndefinedReferences(e.res)
	return e.res
}

func (e *emitter) emit(line string) {
	if strings.TrimSpace(line) == "" {
		e.maybeAddBlank()
		return
	}

	inCustom := e.blocks.track(line)

	if e.loc.update(line) {
		e.prevLabel = false
	}

	if e.filter.StripCommentOnly && e.commentOnly(line) {
		return
	}

	if inCustom {
		line = unindentLabel(line)
	}

	name, cuda, isDef := e.definition(line)
	if cuda {
		e.inNvccDef = true
	}
	if isDef {
		if !e.used.has(name) {
			e.prevLabel = false
			if e.filter.StripDeadLabels {
				return
			}
		} else {
			e.prevLabel = true
			e.res.LabelDefinitions[name] = len(e.res.Lines) + 1
		}
	}

	switch {
	case e.inNvccDef:
		if reCudaEndDef.MatchString(line) {
			e.inNvccDef = false
		}
	case !isDef && e.filter.StripDirectives:
		// Data right after a live label is what that label points at.
		keepData := reDataDefn.MatchString(line) && e.prevLabel
		if !keepData && e.isDirective(line) {
			return
		}
	}

	text := formatLine(line, e.filter)
	var refs []LabelRef
	if !isDef {
		refs = e.references(text)
	}
	var src *Source
	if e.hasOpcode(line) {
		src = e.loc.at()
	}
	e.res.Lines = append(e.res.Lines, textLine(text, src, refs))
}

// maybeAddBlank emits a blank line unless the output is empty or already
// ends with one.
func (e *emitter) maybeAddBlank() {
	lines := e.res.Lines
	if len(lines) == 0 || lines[len(lines)-1].Text == "" {
		return
	}
	e.res.Lines = append(e.res.Lines, textLine("", nil, nil))
}

// removeUndefinedReferences drops label references to names that have no
// definition in the output. It runs once the whole document is emitted,
// since a reference may precede its definition.
func removeUndefinedReferences(res *Result) {
	for i := range res.Lines {
		line := &res.Lines[i]
		if len(line.Labels) == 0 {
			continue
		}
		line.Labels = lo.Filter(line.Labels, func(ref LabelRef, _ int) bool {
			_, ok := res.LabelDefinitions[ref.Name]
			return ok
		})
		if len(line.Labels) == 0 {
			line.Labels = nil
		}
	}
}
