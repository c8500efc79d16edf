// Package pathvars expands ${name} placeholders in path templates using the
// variables an editor defines for the file being viewed.
package pathvars

import (
	"path/filepath"
	"regexp"
	"strings"
)

var reVariable = regexp.MustCompile(`\$\{(.*?)\}`)

// Names lists the variables New defines, in documentation order.
var Names = []string{
	"workspaceFolder",
	"workspaceFolderBasename",
	"file",
	"relativeFile",
	"fileBasename",
	"fileBasenameNoExtension",
	"fileDirname",
	"fileExtname",
	"pathSeparator",
}

// Variables maps a variable name to its value.
type Variables map[string]string

// New returns the variables for file inside the workspace folder.
// An empty workspace leaves the workspace variables empty and makes
// relativeFile equal to file.
func New(workspace, file string) Variables {
	base := filepath.Base(file)
	ext := filepath.Ext(file)

	v := Variables{
		"workspaceFolder":         workspace,
		"workspaceFolderBasename": "",
		"file":                    file,
		"relativeFile":            file,
		"fileBasename":            base,
		"fileBasenameNoExtension": strings.TrimSuffix(base, ext),
		"fileDirname":             filepath.Dir(file),
		"fileExtname":             ext,
		"pathSeparator":           string(filepath.Separator),
	}
	if workspace != "" {
		v["workspaceFolderBasename"] = filepath.Base(workspace)
		if rel, err := filepath.Rel(workspace, file); err == nil {
			v["relativeFile"] = rel
		}
	}
	return v
}

// Lookup returns the value of a variable.
func (v Variables) Lookup(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// Resolve substitutes every known ${name} in template and normalizes the
// result. Unknown placeholders are kept as written.
func (v Variables) Resolve(template string) string {
	resolved := reVariable.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := v.Lookup(name); ok {
			return value
		}
		return match
	})
	return filepath.Clean(resolved)
}
