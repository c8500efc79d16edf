package asm

import (
	"strconv"
	"strings"
)

// processBinary parses objdump-style output:
//
//	0000000000401126 <main>:
//	/home/user/main.c:3
//	  401126:	55                   	push   %rbp
func (p *Parser) processBinary(text string, f Filter) *Result {
	res := &Result{LabelDefinitions: make(map[string]int)}
	lines := splitLines(text)

	// Tools report failures as a single "<...>" line.
	if len(lines) == 1 && strings.HasPrefix(lines[0], "<") {
		res.Lines = append(res.Lines, textLine(lines[0], nil, nil))
		return res
	}

	var (
		source  *Source
		fn      string
		visible bool
	)
	for _, line := range lines {
		if m := reBinarySource.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
				source = &Source{File: m[1], Line: n}
			} else {
				source = nil
			}
			continue
		}

		if m := reBinaryFunc.FindStringSubmatch(line); m != nil {
			fn = m[2]
			visible = p.isUserFunction(fn)
			source = nil
			if visible {
				res.Lines = append(res.Lines, textLine(fn+":", nil, nil))
				res.LabelDefinitions[fn] = len(res.Lines)
			}
			continue
		}

		if fn == "" || !visible {
			continue
		}

		m := reBinaryOpcode.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		address, err := strconv.ParseUint(m[1], 16, 64)
		if err != nil {
			continue
		}
		disassembly := " " + formatLine(m[3], f)
		var src *Source
		if source != nil {
			s := *source
			src = &s
		}
		res.Lines = append(res.Lines, Line{
			Kind:    BinaryLine,
			Text:    disassembly,
			Source:  src,
			Labels:  destinations(disassembly),
			Address: address,
			Opcodes: strings.Join(strings.Fields(m[2]), " "),
		})
	}

	removeUndefinedReferences(res)
	return res
}

// destinations returns the `<symbol>` call and jump targets in text.
func destinations(text string) []LabelRef {
	var refs []LabelRef
	for _, loc := range reBinaryDest.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		refs = append(refs, LabelRef{
			Name:     text[start:end],
			StartCol: start + 1,
			EndCol:   end + 1,
		})
	}
	return refs
}

func (p *Parser) isUserFunction(name string) bool {
	if p.hideFunctions == nil {
		return true
	}
	return !p.hideFunctions.MatchString(name)
}
