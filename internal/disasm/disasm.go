// Package disasm defines a common instruction representation used
// across architecture-specific disassemblers.
package disasm

import (
	"debug/elf"
	"fmt"
	"strings"

	"golang.org/x/arch/arm64/arm64asm"
	"golang.org/x/arch/x86/x86asm"
)

// Inst is a simplified decoded instruction.
type Inst struct {
	VA   uint64 // virtual address of instruction
	Text string // formatted disassembly string
	Op   string // mnemonic in lowercase
	Raw  []byte // raw encoding
	// Target is the absolute destination of a PC-relative operand.
	Target    uint64
	HasTarget bool
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// Arch names an instruction set the decoder understands.
type Arch int

const (
	X86_64 Arch = iota
	ARM64
)

// ArchFor maps an ELF machine to an Arch.
func ArchFor(m elf.Machine) (Arch, error) {
	switch m {
	case elf.EM_X86_64:
		return X86_64, nil
	case elf.EM_AARCH64:
		return ARM64, nil
	default:
		return 0, fmt.Errorf("unsupported machine %v", m)
	}
}

// SymbolFunc names the symbol containing addr. It returns "" for unknown
// addresses.
type SymbolFunc func(addr uint64) (name string, base uint64)

// Decode disassembles code loaded at va. Undecodable bytes become "(bad)".
func Decode(arch Arch, code []byte, va uint64, sym SymbolFunc) Stream {
	var out Stream
	for off := 0; off < len(code); {
		var inst Inst
		switch arch {
		case ARM64:
			inst = decodeARM64(code[off:], va+uint64(off))
		default:
			inst = decodeX86(code[off:], va+uint64(off))
		}
		if inst.HasTarget && sym != nil {
			inst.Text = withTarget(inst.Text, inst.Target, sym)
		}
		out = append(out, inst)
		off += len(inst.Raw)
	}
	return out
}

func decodeX86(code []byte, pc uint64) Inst {
	x, err := x86asm.Decode(code, 64)
	if err != nil || x.Len == 0 {
		return Inst{VA: pc, Text: "(bad)", Op: "(bad)", Raw: code[:1]}
	}
	inst := Inst{
		VA:   pc,
		Text: x86asm.GNUSyntax(x, pc, nil),
		Raw:  code[:x.Len],
	}
	inst.Op, _, _ = strings.Cut(inst.Text, " ")
	if rel, ok := lastArg(x.Args[:]).(x86asm.Rel); ok {
		inst.Target = pc + uint64(x.Len) + uint64(int64(rel))
		inst.HasTarget = true
	}
	return inst
}

func lastArg(args []x86asm.Arg) x86asm.Arg {
	var last x86asm.Arg
	for _, a := range args {
		if a == nil {
			break
		}
		last = a
	}
	return last
}

func decodeARM64(code []byte, pc uint64) Inst {
	if len(code) < 4 {
		return Inst{VA: pc, Text: "(bad)", Op: "(bad)", Raw: code}
	}
	a, err := arm64asm.Decode(code[:4])
	if err != nil {
		return Inst{VA: pc, Text: "(bad)", Op: "(bad)", Raw: code[:4]}
	}
	inst := Inst{
		VA:   pc,
		Text: arm64asm.GNUSyntax(a),
		Raw:  code[:4],
	}
	inst.Op, _, _ = strings.Cut(inst.Text, " ")
	for i := len(a.Args) - 1; i >= 0; i-- {
		if a.Args[i] == nil {
			continue
		}
		if rel, ok := a.Args[i].(arm64asm.PCRel); ok {
			inst.Target = pc + uint64(int64(rel))
			inst.HasTarget = true
		}
		break
	}
	return inst
}

// withTarget replaces the last operand with objdump's "addr <sym+off>" form.
func withTarget(text string, target uint64, sym SymbolFunc) string {
	i := strings.LastIndexAny(text, " ,")
	if i < 0 {
		return text
	}
	dest := fmt.Sprintf("%x", target)
	if name, base := sym(target); name != "" {
		if target == base {
			dest += " <" + name + ">"
		} else {
			dest += fmt.Sprintf(" <%s+0x%x>", name, target-base)
		}
	}
	return text[:i+1] + dest
}
