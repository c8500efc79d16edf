package disasm

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"disasexpl/internal/elfx"
)

// WriteListing writes an objdump -d -l style listing of every function in
// the image's text section.
func WriteListing(w io.Writer, im *elfx.Image) error {
	arch, err := ArchFor(im.Machine)
	if err != nil {
		return err
	}

	sym := func(addr uint64) (string, uint64) {
		s, ok := im.SymbolAt(addr)
		if !ok {
			return "", 0
		}
		return s.Name, s.Addr
	}

	bw := bufio.NewWriter(w)
	for i, fn := range im.Funcs {
		end := im.FuncEnd(i)
		code, ok := im.SliceVA(fn.Addr, end-fn.Addr)
		if !ok {
			continue
		}
		fmt.Fprintf(bw, "\n%016x <%s>:\n", fn.Addr, fn.Name)

		var last elfx.LineEntry
		for _, inst := range Decode(arch, code, fn.Addr, sym) {
			if pos, ok := im.Lines.Lookup(inst.VA); ok && filepath.IsAbs(pos.File) {
				if pos.File != last.File || pos.Line != last.Line {
					fmt.Fprintf(bw, "%s:%d\n", pos.File, pos.Line)
					last = pos
				}
			}
			writeInst(bw, inst)
		}
	}
	return bw.Flush()
}

func writeInst(w io.Writer, inst Inst) {
	fmt.Fprintf(w, "%8x:\t%-21s\t%s\n", inst.VA, hexBytes(inst.Raw), inst.Text)
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}
