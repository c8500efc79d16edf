package asm

import (
	"regexp"
	"strings"
)

// dialect holds the recognizers that differ between assembler flavours.
// One is picked per document so the per-line path never re-branches.
type dialect interface {
	name() string
	// commentOnly reports whether the line carries nothing but a comment.
	commentOnly(line string) bool
	// hasOpcode reports whether a comment-free line body starts an instruction.
	hasOpcode(body string) bool
	// closesBlock reports whether the line ends a function body that has no
	// explicit boundary directive.
	closesBlock(line string) bool
}

type gnuDialect struct{}

func (gnuDialect) name() string                 { return "gnu" }
func (gnuDialect) commentOnly(line string) bool { return reCommentOnly.MatchString(line) }
func (gnuDialect) hasOpcode(body string) bool   { return reHasOpcode.MatchString(body) }
func (gnuDialect) closesBlock(line string) bool { return false }

// nvccDialect covers PTX as emitted by nvcc: predicated instructions start
// with '@', function bodies end with '}'.
type nvccDialect struct{}

func (nvccDialect) name() string                 { return "nvcc" }
func (nvccDialect) commentOnly(line string) bool { return reCommentOnlyNvcc.MatchString(line) }
func (nvccDialect) hasOpcode(body string) bool   { return reHasNvccOpcode.MatchString(body) }
func (nvccDialect) closesBlock(line string) bool { return strings.Contains(line, "}") }

// syntax is everything decided once per document.
type syntax struct {
	dialect
	labelFind *regexp.Regexp
	mips      bool
}

func detectSyntax(lines []string) syntax {
	s := syntax{dialect: gnuDialect{}, labelFind: reLabelFindDefault}
	for _, line := range lines {
		if !s.mips && reMipsLabelDef.MatchString(line) {
			s.mips = true
			s.labelFind = reLabelFindMips
		}
		if s.dialect.name() != "nvcc" && reCudaBeginDef.MatchString(line) {
			s.dialect = nvccDialect{}
		}
	}
	return s
}
