package elfx

import (
	"os"
	"path/filepath"
	"testing"
)

func testImage() *Image {
	return &Image{
		Text: Section{Name: ".text", VA: 0x1000, Off: 0x100, Size: 0x40},
		Funcs: []Symbol{
			{Name: "a", Addr: 0x1000, Size: 0x10},
			{Name: "b", Addr: 0x1010},
			{Name: "c", Addr: 0x1030, Size: 0x8},
		},
		All: make([]byte, 0x200),
	}
}

func TestSymbolAt(t *testing.T) {
	im := testImage()
	tests := []struct {
		addr uint64
		want string
		ok   bool
	}{
		{0x0fff, "", false},
		{0x1000, "a", true},
		{0x100f, "a", true},
		{0x1010, "b", true},
		{0x102f, "b", true},
		{0x1034, "c", true},
		{0x1038, "", false},
	}
	for _, tt := range tests {
		sym, ok := im.SymbolAt(tt.addr)
		if ok != tt.ok || sym.Name != tt.want {
			t.Errorf("SymbolAt(%#x) = %q, %v; want %q, %v", tt.addr, sym.Name, ok, tt.want, tt.ok)
		}
	}
}

func TestFuncEnd(t *testing.T) {
	im := testImage()
	for i, want := range []uint64{0x1010, 0x1030, 0x1038} {
		if got := im.FuncEnd(i); got != want {
			t.Errorf("FuncEnd(%d) = %#x, want %#x", i, got, want)
		}
	}
}

func TestSliceVA(t *testing.T) {
	im := testImage()
	b, ok := im.SliceVA(0x1010, 4)
	if !ok || len(b) != 4 {
		t.Fatalf("SliceVA = %v, %v", b, ok)
	}
	if _, ok := im.SliceVA(0x9000, 4); ok {
		t.Error("unmapped address should fail")
	}
	if off, ok := im.VA2Off(0x1020); !ok || off != 0x120 {
		t.Errorf("VA2Off = %#x, %v", off, ok)
	}
}

func TestLineTableLookup(t *testing.T) {
	table := LineTable{
		{Addr: 0x1000, File: "/src/a.c", Line: 3},
		{Addr: 0x1008, File: "/src/a.c", Line: 4},
		{Addr: 0x1010},
		{Addr: 0x1020, File: "/src/b.c", Line: 1},
	}
	tests := []struct {
		addr uint64
		line int
		ok   bool
	}{
		{0x0ff0, 0, false},
		{0x1004, 3, true},
		{0x1008, 4, true},
		{0x1014, 0, false},
		{0x1030, 1, true},
	}
	for _, tt := range tests {
		e, ok := table.Lookup(tt.addr)
		if ok != tt.ok || e.Line != tt.line {
			t.Errorf("Lookup(%#x) = %d, %v; want %d, %v", tt.addr, e.Line, ok, tt.line, tt.ok)
		}
	}
}

func TestOpenRejectsNonELF(t *testing.T) {
	dir, err := os.MkdirTemp("", "elfx-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "main.s")
	if err := os.WriteFile(path, []byte("main:\n\tret\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected an error for a text file")
	}
	if IsELF([]byte("main:")) {
		t.Error("IsELF on text")
	}
	if !IsELF([]byte("\x7fELF\x02\x01")) {
		t.Error("IsELF on magic")
	}
}
