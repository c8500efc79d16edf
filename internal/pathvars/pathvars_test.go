package pathvars

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	vars := New("/home/dev/proj", "/home/dev/proj/src/main.c")

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"workspace relative", "${workspaceFolder}/build/${relativeFile}.S", "/home/dev/proj/build/src/main.c.S"},
		{"sibling directory", "${fileDirname}/../obj/${fileBasenameNoExtension}.s", "/home/dev/proj/obj/main.s"},
		{"basename", "/tmp/${workspaceFolderBasename}/${fileBasename}", "/tmp/proj/main.c"},
		{"extension", "/out/x${fileExtname}", "/out/x.c"},
		{"separator", "${workspaceFolder}${pathSeparator}a.S", "/home/dev/proj/a.S"},
		{"unknown kept", "${nope}/x.S", "${nope}/x.S"},
		{"dot segments", "/a/./b/../c", "/a/c"},
		{"repeated", "${fileBasename}-${fileBasename}", "main.c-main.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, vars.Resolve(tt.template))
		})
	}
}

func TestNew_NoWorkspace(t *testing.T) {
	vars := New("", "/src/a.cpp")

	rel, ok := vars.Lookup("relativeFile")
	assert.True(t, ok)
	assert.Equal(t, "/src/a.cpp", rel)

	base, _ := vars.Lookup("workspaceFolderBasename")
	assert.Empty(t, base)

	_, ok = vars.Lookup("missing")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	vars := New("/w", "/w/f.c")
	for _, name := range Names {
		_, ok := vars.Lookup(name)
		assert.True(t, ok, name)
	}
	assert.Len(t, vars, len(Names))
}
