package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb\n"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n\n"))
	assert.Empty(t, splitLines(""))
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nothing", "nothing"},
		{"\tx", "        x"},
		{"a\tb", "a       b"},
		{"abcdefgh\tx", "abcdefgh        x"},
		{"mov\teax", "mov     eax"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandTabs(tt.in), "%q", tt.in)
	}
}

func TestSquashWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		mode IndentMode
		want string
	}{
		{"  mov   eax,  1  ", IndentMarker, "  mov eax, 1"},
		{"        mov eax", IndentMarker, "  mov eax"},
		{"mov eax", IndentMarker, "mov eax"},
		{"  mov   eax,  1  ", IndentStrip, "mov eax, 1"},
		{"mov\t\teax", IndentMarker, "mov eax"},
		{"   ", IndentMarker, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, squashWhitespace(tt.in, tt.mode), "%q", tt.in)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"foo:\n\tmov\teax, 1\n\tret   \n",
		"  a  b\n\n\tc",
		".L1: .quad .L2\r\n",
		"",
	}
	filters := []Filter{
		DefaultFilter(),
		{Trim: true, Indent: IndentStrip},
		{},
	}
	for _, f := range filters {
		for _, in := range inputs {
			once := Format(in, f)
			assert.Equal(t, once, Format(once, f), "%q with %+v", in, f)
		}
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "foo:\n  mov eax, 1\n", Format("foo:\r\n\tmov\teax, 1   \r\n", DefaultFilter()))
	assert.Equal(t, "", Format("", DefaultFilter()))
}
