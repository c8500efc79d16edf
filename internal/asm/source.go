package asm

import "strconv"

// Stab types, see the STABS documentation on N_SLINE, N_SO and N_SOL.
const (
	stabLine       = 68
	stabSourceFile = 100
	stabIncludeEnd = 132
)

// parseFiles collects the `.file N "dir" ["name"]` table of a document.
func parseFiles(lines []string) map[int]string {
	files := make(map[int]string)
	for _, line := range lines {
		m := reFileFind.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if m[3] != "" {
			// clang: .file N "dir" "name"
			files[n] = m[2] + "/" + m[3]
		} else {
			files[n] = m[2]
		}
	}
	return files
}

// locator tracks the source position of the lines being scanned.
type locator struct {
	files   map[int]string
	dialect dialect
	current *Source
}

func newLocator(files map[int]string, d dialect) *locator {
	return &locator{files: files, dialect: d}
}

// at returns a copy of the current position, or nil.
func (l *locator) at() *Source {
	if l.current == nil {
		return nil
	}
	src := *l.current
	return &src
}

// update feeds one line to the locator. It reports whether the caller must
// forget the previously seen label, which happens when a function or
// section ends.
func (l *locator) update(line string) (resetLabel bool) {
	switch {
	case l.fileLine(line):
	case l.stab(line, &resetLabel):
	default:
		l.dbg(line)
	}
	if reEndBlock.MatchString(line) || l.dialect.closesBlock(line) {
		l.current = nil
		resetLabel = true
	}
	return resetLabel
}

// set moves to file:line. Line 0 marks compiler-generated code and has no
// source position.
func (l *locator) set(file string, line int) {
	if line <= 0 {
		l.current = nil
		return
	}
	l.current = &Source{File: file, Line: line}
}

// fileLine handles `.loc FILE LINE` and `.d2line LINE`.
func (l *locator) fileLine(line string) bool {
	if m := reSourceLoc.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		srcLine, err := strconv.Atoi(m[2])
		file, ok := l.files[n]
		if !ok || err != nil {
			l.current = nil
			return true
		}
		l.set(visibleFile(file), srcLine)
		return true
	}
	if m := reSourceD2Line.FindStringSubmatch(line); m != nil {
		if srcLine, err := strconv.Atoi(m[1]); err == nil {
			l.set("", srcLine)
		}
		return true
	}
	return false
}

func (l *locator) stab(line string, resetLabel *bool) bool {
	m := reSourceStab.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	kind, err := strconv.Atoi(m[1])
	if err != nil {
		return true
	}
	switch kind {
	case stabLine:
		if srcLine, err := strconv.Atoi(m[2]); err == nil {
			l.set("", srcLine)
		}
	case stabSourceFile, stabIncludeEnd:
		l.current = nil
		*resetLabel = true
	}
	return true
}

// dbg handles the cc65 `.dbg line, "file", N` pseudo-op.
func (l *locator) dbg(line string) {
	if m := reSource6502.FindStringSubmatch(line); m != nil {
		if srcLine, err := strconv.Atoi(m[2]); err == nil {
			l.set(visibleFile(m[1]), srcLine)
		}
		return
	}
	if reSource6502End.MatchString(line) {
		l.current = nil
	}
}

// visibleFile hides the placeholder names compilers use for stdin and
// online-compiler buffers.
func visibleFile(file string) string {
	if reStdinLooking.MatchString(file) {
		return ""
	}
	return file
}
