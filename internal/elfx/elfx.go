// Package elfx opens ELF binaries and exposes what a disassembly listing
// needs: the executable section, function symbols and the DWARF line table.
package elfx

import (
	"bytes"
	"debug/elf"
	"fmt"
	"os"
	"sort"
	"syscall"
)

type Image struct {
	Path    string
	File    *elf.File
	All     []byte
	Machine elf.Machine
	Loads   []Seg
	Text    Section
	// Funcs are the function symbols inside Text, sorted by address.
	Funcs []Symbol
	// Lines is empty when the binary has no DWARF line information.
	Lines LineTable

	f      *os.File
	mapped bool
}

type Seg struct {
	Vaddr, Off, Filesz uint64
	Flags              elf.ProgFlag
}

type Section struct {
	Name          string
	VA, Off, Size uint64
}

type Symbol struct {
	Name string
	Addr uint64
	Size uint64
}

// IsELF reports whether data starts with the ELF magic.
func IsELF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(elf.ELFMAG))
}

// Open maps the file at path and parses it.
func Open(path string) (*Image, error) {
	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if fi.Size() == 0 {
		of.Close()
		return nil, fmt.Errorf("open elf: %s is empty", path)
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	im, err := parse(path, all)
	if err != nil {
		syscall.Munmap(all)
		of.Close()
		return nil, err
	}
	im.f = of
	im.mapped = true
	return im, nil
}

// Parse reads an ELF image that is already in memory. The image keeps a
// reference to data.
func Parse(name string, data []byte) (*Image, error) {
	return parse(name, data)
}

func parse(path string, all []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(all))
	if err != nil {
		return nil, fmt.Errorf("open elf: %w", err)
	}

	im := &Image{Path: path, File: f, All: all, Machine: f.Machine}
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		im.Loads = append(im.Loads, Seg{
			Vaddr:  p.Vaddr,
			Off:    p.Off,
			Filesz: p.Filesz,
			Flags:  p.Flags,
		})
	}

	textIndex := -1
	for i, s := range f.Sections {
		if s.Name == ".text" {
			im.Text = Section{s.Name, s.Addr, s.Offset, s.Size}
			textIndex = i
			break
		}
	}
	// Stripped section headers: fall back to the first executable segment.
	if im.Text.Size == 0 {
		for _, l := range im.Loads {
			if l.Flags&elf.PF_X != 0 && l.Filesz > 0 {
				im.Text = Section{"LOAD(exec)", l.Vaddr, l.Off, l.Filesz}
				break
			}
		}
	}

	im.loadFuncs(textIndex)
	im.loadLines()
	return im, nil
}

// Close releases the mapping and the underlying files.
func (im *Image) Close() error {
	var err1, err2 error
	if im.mapped && im.All != nil {
		err1 = syscall.Munmap(im.All)
	}
	im.All = nil
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if im.File != nil {
		if err3 := im.File.Close(); err3 != nil && err2 == nil {
			err2 = err3
		}
		im.File = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// VA2Off translates a virtual address into a file offset
// using PT_LOAD segments. It returns false if VA is unmapped.
func (im *Image) VA2Off(va uint64) (uint64, bool) {
	if im.Text.Size != 0 && va >= im.Text.VA && va < im.Text.VA+im.Text.Size {
		return im.Text.Off + (va - im.Text.VA), true
	}
	for _, l := range im.Loads {
		if va >= l.Vaddr && va < l.Vaddr+l.Filesz {
			return l.Off + (va - l.Vaddr), true
		}
	}
	return 0, false
}

// SliceVA returns the bytes of [va, va+size). It returns (nil, false) if the
// range is unmapped or out of bounds.
func (im *Image) SliceVA(va uint64, size uint64) ([]byte, bool) {
	off, ok := im.VA2Off(va)
	if !ok {
		return nil, false
	}
	if size == 0 {
		return []byte{}, true
	}
	end := off + size
	if end > uint64(len(im.All)) || end < off {
		return nil, false
	}
	return im.All[off:end], true
}

// loadFuncs collects STT_FUNC symbols from .symtab, falling back to .dynsym
// for stripped binaries. Aliases at the same address keep the first name.
func (im *Image) loadFuncs(textIndex int) {
	syms, err := im.File.Symbols()
	if err != nil || len(syms) == 0 {
		syms, _ = im.File.DynamicSymbols()
	}

	seen := make(map[uint64]bool)
	for _, sym := range syms {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Value == 0 || sym.Name == "" {
			continue
		}
		if textIndex >= 0 && int(sym.Section) != textIndex {
			continue
		}
		if seen[sym.Value] {
			continue
		}
		seen[sym.Value] = true
		im.Funcs = append(im.Funcs, Symbol{Name: sym.Name, Addr: sym.Value, Size: sym.Size})
	}
	sort.Slice(im.Funcs, func(i, j int) bool {
		return im.Funcs[i].Addr < im.Funcs[j].Addr
	})
}

// SymbolAt returns the function containing addr. A zero-sized symbol
// extends to the next one.
func (im *Image) SymbolAt(addr uint64) (Symbol, bool) {
	i := sort.Search(len(im.Funcs), func(i int) bool {
		return im.Funcs[i].Addr > addr
	}) - 1
	if i < 0 {
		return Symbol{}, false
	}
	sym := im.Funcs[i]
	end := sym.Addr + sym.Size
	if sym.Size == 0 {
		end = im.Text.VA + im.Text.Size
		if i+1 < len(im.Funcs) {
			end = im.Funcs[i+1].Addr
		}
	}
	if addr >= end {
		return Symbol{}, false
	}
	return sym, true
}

// FuncEnd returns the end address of the i-th function in Funcs.
func (im *Image) FuncEnd(i int) uint64 {
	sym := im.Funcs[i]
	if sym.Size != 0 {
		return sym.Addr + sym.Size
	}
	if i+1 < len(im.Funcs) {
		return im.Funcs[i+1].Addr
	}
	return im.Text.VA + im.Text.Size
}
