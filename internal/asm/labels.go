package asm

import "strings"

// maxLabelIterations bounds the weak-reference closure. It only guards
// against pathological cycles; real compiler output converges in a few rounds.
const maxLabelIterations = 10

type labelSet map[string]struct{}

func (s labelSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s labelSet) add(names ...string) {
	for _, name := range names {
		s[name] = struct{}{}
	}
}

// findUsedLabels returns the labels that are live in lines.
//
// A label is strongly used when it appears on an instruction, an export, a
// function-defining directive or (when directives are kept) any line at all.
// A label that only appears in data belonging to another label is weakly
// used: it is live only if that other label is. For
//
//	.baz: .quad .foo
//	      mov eax, .baz
//
// .baz is strongly used and .foo weakly used by .baz, so both are live.
func (c classifier) findUsedLabels(lines []string, stripDirectives bool) labelSet {
	used := labelSet{}
	weak := make(map[string][]string)

	// All labels pointing at the same code, e.g. both foo and bar in
	// "foo:\nbar:\n\tadd r0, r0, #1".
	var current []string
	inGroup := false
	// Non-local labels waiting for the first instruction they fall into.
	var entry []string
	var blocks customBlocks

	for _, line := range lines {
		if blocks.track(line) {
			line = unindentLabel(line)
		}

		body := line
		if name, prefix, ok := c.labelDef(line); ok {
			if inGroup {
				current = append(current, name)
			} else {
				current = []string{name}
				entry = entry[:0]
			}
			if !isLocalLabel(name) {
				entry = append(entry, name)
			}
			body = line[len(prefix):]
			inGroup = strings.TrimSpace(body) == ""
		} else {
			inGroup = false
		}

		if name, ok := c.exported(line); ok {
			used.add(name)
		} else if m := reCudaBeginDef.FindStringSubmatch(line); m != nil {
			used.add(m[1])
		}

		isOpcode := c.hasOpcode(line)
		isData := c.isData(line)
		switch {
		case isOpcode:
			used.add(entry...)
			entry = entry[:0]
		case isData:
			entry = entry[:0]
		}

		definesFunction := c.definesFunction(line)
		if strings.TrimSpace(body) == "" {
			continue
		}
		if !definesFunction && body == line && strings.HasPrefix(line, ".") {
			continue
		}

		ids := c.identifiers(body)
		if len(ids) == 0 {
			continue
		}
		if !stripDirectives || isOpcode || definesFunction {
			used.add(ids...)
			continue
		}
		if isData {
			for _, label := range current {
				weak[label] = append(weak[label], ids...)
			}
		}
	}

	closeWeakUses(used, weak)
	return used
}

// closeWeakUses marks everything weakly used by a live label as live,
// repeating until nothing changes or maxLabelIterations is reached.
func closeWeakUses(used labelSet, weak map[string][]string) {
	for iter := 0; iter < maxLabelIterations; iter++ {
		var toAdd []string
		for label := range used {
			for _, target := range weak[label] {
				if !used.has(target) {
					toAdd = append(toAdd, target)
				}
			}
		}
		if len(toAdd) == 0 {
			return
		}
		used.add(toAdd...)
	}
}

// isLocalLabel reports whether name is an assembler-private label such as
// .LBB0_2 or $L3.
func isLocalLabel(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "$")
}
