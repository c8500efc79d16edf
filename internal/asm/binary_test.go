package asm

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objdumpListing = `0000000000401000 <internal_helper>:
  401000:	55                   	push   %rbp
  401001:	c3                   	ret

0000000000401010 <main>:
/src/main.c:3
  401010:	e8 eb ff ff ff       	call   401000 <internal_helper>
  401015:	e8 00 00 00 00       	call   40101a <main+0xa>
/src/main.c:0
  40101a:	c3                   	ret

0000000000401020 <after>:
  401020:	c3                   	ret
`

func binaryFilter() Filter {
	f := DefaultFilter()
	f.Binary = true
	return f
}

func TestProcessBinary(t *testing.T) {
	p := NewParser(WithHiddenFunctions(regexp.MustCompile(`^internal_`)))
	res := p.Process(objdumpListing, binaryFilter())

	require.Len(t, res.Lines, 6)
	assert.Equal(t, map[string]int{"main": 1, "after": 5}, res.LabelDefinitions)

	assert.Equal(t, Line{Kind: TextLine, Text: "main:"}, res.Lines[0])
	assert.Equal(t, Line{
		Kind:    BinaryLine,
		Text:    " call 401000 <internal_helper>",
		Source:  &Source{File: "/src/main.c", Line: 3},
		Address: 0x401010,
		Opcodes: "e8 eb ff ff ff",
	}, res.Lines[1])
	assert.Equal(t, []LabelRef{{Name: "main", StartCol: 15, EndCol: 19}}, res.Lines[2].Labels)
	assert.Nil(t, res.Lines[3].Source, "line 0 clears the position")
	assert.Equal(t, " ret", res.Lines[3].Text)
	assert.Nil(t, res.Lines[5].Source, "a new function starts without a position")
}

func TestProcessBinary_AllFunctionsVisible(t *testing.T) {
	res := NewParser().Process(objdumpListing, binaryFilter())

	assert.Equal(t, map[string]int{"internal_helper": 1, "main": 4, "after": 8}, res.LabelDefinitions)
	assert.Equal(t, []LabelRef{{Name: "internal_helper", StartCol: 15, EndCol: 30}}, res.Lines[4].Labels)
}

func TestProcessBinary_DefaultHiddenFunctions(t *testing.T) {
	listing := strings.Join([]string{
		"0000000000401000 <_start>:",
		"  401000:\tf3 0f 1e fa          \tendbr64",
		"0000000000401010 <__libc_csu_init>:",
		"  401010:\tc3                   \tret",
		"0000000000401020 <main>:",
		"  401020:\tc3                   \tret",
	}, "\n")
	res := NewParser(WithHiddenFunctions(DefaultHiddenFunctions)).Process(listing, binaryFilter())

	assert.Equal(t, "main:\n<00401020>  ret\n", res.Value())
}

func TestProcessBinary_ErrorDocument(t *testing.T) {
	res := NewParser().Process("<No such file: a.out>\n", binaryFilter())

	require.Len(t, res.Lines, 1)
	assert.Equal(t, "<No such file: a.out>", res.Lines[0].Text)
	assert.Equal(t, TextLine, res.Lines[0].Kind)
}

func TestLineValue(t *testing.T) {
	bin := Line{Kind: BinaryLine, Text: " ret", Address: 0x1234}
	assert.Equal(t, "<00001234>  ret\n", bin.Value())

	wide := Line{Kind: BinaryLine, Text: " nop", Address: 0xffffffff81000000}
	assert.Equal(t, "<ffffffff81000000>  nop\n", wide.Value())

	assert.Equal(t, "foo:\n", textLine("foo:", nil, nil).Value())
	assert.Equal(t, "binary", BinaryLine.String())
}

func TestDestinations(t *testing.T) {
	assert.Equal(t, []LabelRef{{Name: "foo", StartCol: 15, EndCol: 18}}, destinations(" call 401000 <foo>"))
	assert.Equal(t, []LabelRef{{Name: "foo", StartCol: 14, EndCol: 17}}, destinations(" jmp 401000 <foo+0x1f>"))
	assert.Nil(t, destinations(" ret"))
}
