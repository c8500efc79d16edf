// Package document loads a disassembly file into a parsed listing and
// correlates its lines with the source file they were compiled from.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"disasexpl/internal/asm"
	"disasexpl/internal/disasm"
	"disasexpl/internal/elfx"
)

// Stdin is the path that makes Load read standard input.
const Stdin = "-"

// Document is a parsed listing. Err is set when the file could not be
// loaded, in which case Result holds a single explanatory line.
type Document struct {
	Path   string
	Result *asm.Result
	// Kinds counts the input lines of each kind. It is nil for binary
	// listings and failed loads.
	Kinds map[asm.Kind]int
	Err   error
}

// Load reads and parses the listing at path. ELF binaries are disassembled
// first when f.Binary is set.
func Load(path string, p *asm.Parser, f asm.Filter) *Document {
	data, err := readInput(path)
	if err != nil {
		return failed(path, err)
	}

	text := string(data)
	if f.Binary && elfx.IsELF(data) {
		text, err = listing(path, data)
		if err != nil {
			return failed(path, err)
		}
	}
	return FromText(path, text, p, f)
}

// FromText parses text that is already in memory.
func FromText(path, text string, p *asm.Parser, f asm.Filter) *Document {
	d := &Document{Path: path, Result: p.Process(text, f)}
	if !f.Binary {
		d.Kinds = countKinds(text)
	}
	return d
}

func countKinds(text string) map[asm.Kind]int {
	counts := make(map[asm.Kind]int)
	for _, k := range asm.Classify(text) {
		counts[k]++
	}
	return counts
}

func readInput(path string) ([]byte, error) {
	if path == Stdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return data, nil
}

func listing(path string, data []byte) (string, error) {
	im, err := elfx.Parse(path, data)
	if err != nil {
		return "", err
	}
	defer im.Close()

	var buf bytes.Buffer
	if err := disasm.WriteListing(&buf, im); err != nil {
		return "", fmt.Errorf("disassemble %s: %w", path, err)
	}
	return buf.String(), nil
}

func failed(path string, err error) *Document {
	return &Document{
		Path: path,
		Result: &asm.Result{
			Lines:            []asm.Line{{Kind: asm.TextLine, Text: fmt.Sprintf("Failed to load file '%s'", path)}},
			LabelDefinitions: map[string]int{},
		},
		Err: err,
	}
}

// Lines returns the parsed lines.
func (d *Document) Lines() []asm.Line {
	return d.Result.Lines
}

// Value renders the document as text, one line per entry.
func (d *Document) Value() string {
	return d.Result.Value()
}
