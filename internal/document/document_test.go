package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"disasexpl/internal/asm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listing = `	.file	1 "/src/main.c"
	.text
	.globl	main
	.type	main, @function
main:
	.loc 1 3 0
	pushq	%rbp
	.loc 1 4 0
	movl	$0, %eax
	.loc 1 3 0
	popq	%rbp
	ret
`

func writeListing(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeListing(t, t.TempDir(), "main.S", listing)

	doc := Load(path, asm.NewParser(), asm.DefaultFilter())
	require.NoError(t, doc.Err)
	assert.Equal(t, "main:\n  pushq %rbp\n  movl $0, %eax\n  popq %rbp\n  ret\n", doc.Value())
	assert.Equal(t, map[string]int{"main": 1}, doc.Result.LabelDefinitions)
	assert.Len(t, doc.Lines(), 5)
	assert.Equal(t, map[asm.Kind]int{
		asm.KindDirective:   7,
		asm.KindLabel:       1,
		asm.KindInstruction: 4,
	}, doc.Kinds)
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.S")

	doc := Load(path, asm.NewParser(), asm.DefaultFilter())
	require.Error(t, doc.Err)
	assert.ErrorIs(t, doc.Err, os.ErrNotExist)
	require.Len(t, doc.Lines(), 1)
	assert.Equal(t, "Failed to load file '"+path+"'", doc.Lines()[0].Text)
	assert.Nil(t, doc.Lines()[0].Source)
	assert.Empty(t, doc.Result.LabelDefinitions)
	assert.Nil(t, doc.Kinds)
}

func TestLoad_BinaryText(t *testing.T) {
	text := "0000000000401000 <main>:\n  401000:\tc3                   \tret\n"
	path := writeListing(t, t.TempDir(), "main.dis", text)

	f := asm.DefaultFilter()
	f.Binary = true
	doc := Load(path, asm.NewParser(), f)
	require.NoError(t, doc.Err)
	assert.Equal(t, "main:\n<00401000>  ret\n", doc.Value())
	assert.Nil(t, doc.Kinds)
}

func TestSourceMap(t *testing.T) {
	doc := FromText("main.S", listing, asm.NewParser(), asm.DefaultFilter())

	// Lines: main:, pushq (3), movl (4), popq (3), ret (3).
	assert.Equal(t, map[int][]int{2: {1, 3, 4}, 3: {2}}, doc.SourceMap())
	assert.Equal(t, []int{1, 3, 4}, doc.AsmLines(2))
	assert.Empty(t, doc.AsmLines(10))

	tests := []struct {
		index int
		want  int
		ok    bool
	}{
		{0, 0, false},
		{1, 2, true},
		{2, 3, true},
		{5, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := doc.SourceLine(tt.index)
		assert.Equal(t, tt.ok, ok, "index %d", tt.index)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := writeListing(t, dir, "main.S", listing)
	c := NewCache(asm.NewParser(), 4)

	first := c.Load(path, asm.DefaultFilter())
	require.NoError(t, first.Err)
	assert.Same(t, first, c.Load(path, asm.DefaultFilter()))
	assert.Equal(t, 1, c.Len())

	raw := asm.Filter{}
	assert.NotSame(t, first, c.Load(path, raw), "filter is part of the key")
	assert.Equal(t, 2, c.Len())

	// A rewritten file is reloaded.
	require.NoError(t, os.WriteFile(path, []byte("f:\n\tret\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	reloaded := c.Load(path, asm.DefaultFilter())
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, "f:\n  ret\n", reloaded.Value())

	missing := c.Load(filepath.Join(dir, "gone.S"), asm.DefaultFilter())
	assert.Error(t, missing.Err)
	assert.Equal(t, 3, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestLocate(t *testing.T) {
	associations := map[string]string{
		"**/*.cpp":  "${workspaceFolder}/build/${fileBasenameNoExtension}.s",
		"src/gen/*": "${fileDirname}/${fileBasename}.lst",
	}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"recursive glob", "/w/src/deep/x.cpp", "/w/build/x.s"},
		{"workspace relative", "/w/src/gen/t.c", "/w/src/gen/t.c.lst"},
		{"default", "/w/src/main.c", "/w/src/main.S"},
		{"no extension", "/w/src/Makefile", "/w/src/Makefile.S"},
		{"dotted directory", "/w/v1.2/main", "/w/v1.2/main.S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Locate(tt.source, "/w", associations))
		})
	}
}

func TestLocate_NoAssociations(t *testing.T) {
	assert.Equal(t, "/a/b.S", Locate("/a/b.cc", "", nil))
}
