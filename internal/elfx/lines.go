package elfx

import (
	"debug/dwarf"
	"sort"
)

// LineEntry maps an address to a source position. Line 0 marks the end of a
// sequence.
type LineEntry struct {
	Addr uint64
	File string
	Line int
}

// LineTable is sorted by address.
type LineTable []LineEntry

func (im *Image) loadLines() {
	d, err := im.File.DWARF()
	if err != nil {
		return
	}
	im.Lines = readLineTable(d)
}

func readLineTable(d *dwarf.Data) LineTable {
	var table LineTable
	r := d.Reader()
	for {
		cu, err := r.Next()
		if err != nil || cu == nil {
			break
		}
		if cu.Tag != dwarf.TagCompileUnit {
			r.SkipChildren()
			continue
		}
		lr, err := d.LineReader(cu)
		if err == nil && lr != nil {
			var entry dwarf.LineEntry
			for {
				// A corrupt program keeps the rows read so far.
				if err := lr.Next(&entry); err != nil {
					break
				}
				e := LineEntry{Addr: entry.Address}
				if !entry.EndSequence && entry.File != nil {
					e.File = entry.File.Name
					e.Line = entry.Line
				}
				table = append(table, e)
			}
		}
		r.SkipChildren()
	}
	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Addr < table[j].Addr
	})
	return table
}

// Lookup returns the position of the last row at or before addr.
func (t LineTable) Lookup(addr uint64) (LineEntry, bool) {
	i := sort.Search(len(t), func(i int) bool {
		return t[i].Addr > addr
	}) - 1
	if i < 0 || t[i].Line == 0 {
		return LineEntry{}, false
	}
	return t[i], true
}
