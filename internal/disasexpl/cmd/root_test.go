package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"disasexpl/internal/asm"
	"disasexpl/internal/document"
)

const testListing = `	.file	1 "/src/main.c"
	.text
	.globl	main
	.type	main, @function
main:
	.loc 1 3 0
	pushq	%rbp
	.loc 1 4 0
	jmp	.L2
.L3:
	.quad	.L2
.L2:
	.loc 1 5 0
	popq	%rbp
	ret
`

func writeTestListing(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(testListing), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	defer resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootNoTUI(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "disasexpl-root")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)
	path := writeTestListing(t, tmpDir, "main.S")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "default filter",
			args: []string{"--cwd", tmpDir, "--no-tui", path},
			want: "main:\n  pushq %rbp\n  jmp .L2\n.L2:\n  popq %rbp\n  ret\n",
		},
		{
			name: "strip indent",
			args: []string{"--cwd", tmpDir, "--no-tui", "--strip-indent", path},
			want: "main:\npushq %rbp\njmp .L2\n.L2:\npopq %rbp\nret\n",
		},
		{
			name: "keep labels",
			args: []string{"--cwd", tmpDir, "-n", "--keep-labels", path},
			want: "main:\n  pushq %rbp\n  jmp .L2\n.L3:\n.L2:\n  popq %rbp\n  ret\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRootJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestListing(t, tmpDir, "main.S")
	missing := filepath.Join(tmpDir, "missing.S")

	out, err := executeCommand(t, "--cwd", tmpDir, "--json", path, missing)
	if !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("err = %v, want ErrLoadFailed", err)
	}

	var docs []documentJSON
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Path != path || docs[0].Error != "" {
		t.Errorf("first document = %+v", docs[0])
	}
	if docs[0].LabelDefinitions["main"] != 1 || docs[0].LabelDefinitions[".L2"] != 4 {
		t.Errorf("labels = %v", docs[0].LabelDefinitions)
	}
	if docs[1].Error == "" || len(docs[1].Lines) != 1 {
		t.Errorf("second document = %+v", docs[1])
	}
}

func TestLoadAll_KeepsOrder(t *testing.T) {
	tmpDir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.S", "b.S", "c.S", "d.S"} {
		paths = append(paths, writeTestListing(t, tmpDir, name))
	}

	docs, err := loadAll(context.Background(), paths, asm.NewParser(), asm.DefaultFilter())
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range docs {
		if d.Path != paths[i] {
			t.Errorf("docs[%d].Path = %s, want %s", i, d.Path, paths[i])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loadAll(ctx, paths, asm.NewParser(), asm.DefaultFilter()); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestWriteListings_MultipleFiles(t *testing.T) {
	p := asm.NewParser()
	docs := []*document.Document{
		document.FromText("a.S", "f:\n\tret\n", p, asm.DefaultFilter()),
		document.FromText("b.S", "g:\n\tnop\n", p, asm.DefaultFilter()),
	}

	var buf bytes.Buffer
	if err := writeListings(&buf, docs, false); err != nil {
		t.Fatal(err)
	}
	want := "==> a.S <==\nf:\n  ret\n\n==> b.S <==\ng:\n  nop\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLabelsCommand(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestListing(t, tmpDir, "main.S")

	out, err := executeCommand(t, "--cwd", tmpDir, "labels", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "main") || strings.Contains(out, ".L2") {
		t.Errorf("unexpected labels output:\n%s", out)
	}

	out, err = executeCommand(t, "--cwd", tmpDir, "labels", "--local", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ".L2") {
		t.Errorf("local labels missing:\n%s", out)
	}
}

func TestMapCommand(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestListing(t, tmpDir, "main.S")

	out, err := executeCommand(t, "--cwd", tmpDir, "map", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"| 3 | 2 | `pushq %rbp` |", "| 4 | 3 | `jmp .L2` |", "| 5 | 5, 6 | `popq %rbp` |"} {
		if !strings.Contains(out, want) {
			t.Errorf("map output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, "--cwd", tmpDir, "map", "--line", "4", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "| 3 | 2 |") || !strings.Contains(out, "| 4 | 3 |") {
		t.Errorf("filtered map output:\n%s", out)
	}
}

func TestResolveAndLocate(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := `{"associations": {"**/*.cpp": "${workspaceFolder}/obj/${fileBasenameNoExtension}.s"}}`
	if err := os.WriteFile(filepath.Join(tmpDir, ".disasexpl.json"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(t, "resolve", "--workspace", "/w", "--file", "src/a.c", "${workspaceFolder}/b/${fileBasename}.s")
	if err != nil {
		t.Fatal(err)
	}
	if out != "/w/b/a.c.s\n" {
		t.Errorf("resolve = %q", out)
	}

	out, err = executeCommand(t, "--cwd", tmpDir, "locate", filepath.Join(tmpDir, "src", "x.cpp"))
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(tmpDir, "obj", "x.s") + "\n"; out != want {
		t.Errorf("locate = %q, want %q", out, want)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := executeCommand(t, "schema")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "associations") {
		t.Errorf("schema output:\n%s", out)
	}
}

func TestInvalidHidePattern(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeTestListing(t, tmpDir, "main.S")

	if _, err := executeCommand(t, "--cwd", tmpDir, "--no-tui", "--hide", "(", path); err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
}
