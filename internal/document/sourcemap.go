package document

// SourceMap groups the 0-based indices of emitted lines by the 0-based
// source line they were generated from.
func (d *Document) SourceMap() map[int][]int {
	m := make(map[int][]int)
	for i, l := range d.Result.Lines {
		if l.Source == nil || l.Source.Line < 1 {
			continue
		}
		m[l.Source.Line-1] = append(m[l.Source.Line-1], i)
	}
	return m
}

// AsmLines returns the indices of the lines generated from the 0-based
// source line srcLine.
func (d *Document) AsmLines(srcLine int) []int {
	var idx []int
	for i, l := range d.Result.Lines {
		if l.Source != nil && l.Source.Line == srcLine+1 {
			idx = append(idx, i)
		}
	}
	return idx
}

// SourceLine returns the 0-based source line of the line at index i.
func (d *Document) SourceLine(i int) (int, bool) {
	if i < 0 || i >= len(d.Result.Lines) {
		return 0, false
	}
	src := d.Result.Lines[i].Source
	if src == nil || src.Line < 1 {
		return 0, false
	}
	return src.Line - 1, true
}
