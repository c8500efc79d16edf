package asm

import "regexp"

// Line shapes shared by every document. None of these are ever mutated.
var (
	reLabelDef        = regexp.MustCompile(`(?i)^(?:\.proc\s+)?([.a-z_$@][a-z0-9$_@.]*):`)
	reMipsLabelDef    = regexp.MustCompile(`^\$[\w$.]+:`)
	reIndentedLabel   = regexp.MustCompile(`^\s*([$.A-Z_a-z][\w$.]*):`)
	reAssignmentDef   = regexp.MustCompile(`^\s*([$.A-Z_a-z][\w$.]*)\s*=`)
	reDataDefn        = regexp.MustCompile(`^\s*\.(?:string|asciz|ascii|[1248]?byte|short|x?word|long|quad|value|zero)`)
	reFileFind        = regexp.MustCompile(`^\s*\.file\s+(\d+)\s+"([^"]+)"(?:\s+"([^"]+)")?`)
	reDefinesFunction = regexp.MustCompile(`^\s*\.(?:type.*,\s*[#%@]function|proc\s+[.A-Z_a-z][\w$.]*:.*)$`)
	reDefinesGlobal   = regexp.MustCompile(`^\s*\.(?:globa?l|GLB|export)\s*([.A-Z_a-z][\w$.]*)`)
	reDefinesWeak     = regexp.MustCompile(`^\s*\.(?:weakext|weak)\s*([.A-Z_a-z][\w$.]*)`)
	reDirective       = regexp.MustCompile(`^\s*\.`)
	reInstOpcode      = regexp.MustCompile(`\.inst\.?\w?\s*`)
	reStringLiteral   = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)

	// LLVM-style `%x = opcode` counts as an opcode.
	reHasOpcode     = regexp.MustCompile(`^\s*(?:%[$.A-Z_a-z][\w$.]*\s*=\s*)?[A-Za-z]`)
	reHasNvccOpcode = regexp.MustCompile(`^\s*[@A-Za-z|]`)
	reInstruction   = regexp.MustCompile(`^\s*[A-Za-z]+`)

	reStartAppBlock   = regexp.MustCompile(`#APP`)
	reEndAppBlock     = regexp.MustCompile(`#NO_APP`)
	reStartAsmNesting = regexp.MustCompile(`# Begin ASM`)
	reEndAsmNesting   = regexp.MustCompile(`# End ASM`)
	reCudaBeginDef    = regexp.MustCompile(`\.(?:entry|func)\s+(?:\([^)]*\)\s*)?([$.A-Z_a-z][\w$.]*)\($`)
	reCudaEndDef      = regexp.MustCompile(`^\s*\)\s*$`)

	// Comment-only lines: '#', '@', '//', a single ';', or ';;' followed by text.
	reCommentOnly     = regexp.MustCompile(`^\s*(?:(?:#|@|//).*|/\*.*\*/|;\s*|;[^;].*|;;.*\S.*)$`)
	reCommentOnlyNvcc = regexp.MustCompile(`^\s*(?:(?:#|;|//).*|/\*.*\*/)$`)
	reBlockComment    = regexp.MustCompile(`(?m)^[\t ]*/\*(?:[^*]|\*+[^*/])*\*+/[\t ]*(?:\r?\n)?`)

	reSourceLoc     = regexp.MustCompile(`^\s*\.loc\s+(\d+)\s+(\d+)`)
	reSourceD2Line  = regexp.MustCompile(`^\s*\.d2line\s+(\d+),?\s*(\d*)`)
	reSourceStab    = regexp.MustCompile(`^\s*\.stabn\s+(\d+),0,(\d+),`)
	reSource6502    = regexp.MustCompile(`^\s*\.dbg\s+line,\s*"([^"]+)",\s*(\d+)`)
	reSource6502End = regexp.MustCompile(`^\s*\.dbg\s+line(?:[^,]|$)`)
	reStdinLooking  = regexp.MustCompile(`<stdin>|^-$|example\.[^/]+$|<source>`)
	reEndBlock      = regexp.MustCompile(`\.(?:cfi_endproc|data|text|section)\b`)
)

// Identifier grammars. MIPS allows a leading '$', elsewhere '$' marks an
// immediate.
var (
	reLabelFindDefault = regexp.MustCompile(`[.A-Z_a-z][\w$.]*`)
	reLabelFindMips    = regexp.MustCompile(`[$.A-Z_a-z][\w$.]*`)
)

// Binary listing (objdump) shapes.
var (
	reBinaryOpcode = regexp.MustCompile(`^\s*([\da-f]+):\s*((?:[\da-f]{2} ?)+)\s*(.*)`)
	reBinarySource = regexp.MustCompile(`^(/[^:]+):(\d+)`)
	reBinaryFunc   = regexp.MustCompile(`^([\da-f]+)\s+<([^>]+)>:$`)
	reBinaryDest   = regexp.MustCompile(`\s[\da-f]+\s+<([^+>]+)(?:\+0x[\da-f]+)?>`)
)

// DefaultHiddenFunctions matches the runtime scaffolding a linker adds to
// every executable.
var DefaultHiddenFunctions = regexp.MustCompile(`^(?:_init|_start|_fini|frame_dummy|register_tm_clones|deregister_tm_clones|__.*)$`)
