package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"disasexpl/internal/asm"
)

// Disabled reports whether DISASEXPL_NO_COLOR or NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("DISASEXPL_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"gas", "GAS", "nasm", "armasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{ListingDark.Name, "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeAssembly applies syntax highlighting to assembly text.
func ColorizeAssembly(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeLine renders one parsed line. Binary lines get their address in
// gray ahead of the highlighted instruction.
func ColorizeLine(l asm.Line) string {
	if Disabled() {
		return strings.TrimSuffix(l.Value(), "\n")
	}
	text := colorizeFullLine(l.Text)
	if l.Kind != asm.BinaryLine {
		return text
	}
	return fmt.Sprintf("\033[38;2;79;79;79m<%08x>\033[0m %s", l.Address, text)
}

// ColorizeResult renders every line of res.
func ColorizeResult(res *asm.Result) string {
	var sb strings.Builder
	for _, l := range res.Lines {
		sb.WriteString(ColorizeLine(l))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// colorizeFullLine uses Chroma to colorize an assembly line
func colorizeFullLine(line string) string {
	out, err := ColorizeAssembly(line)
	if err != nil {
		return line
	}
	// Lexers may terminate the input with a newline of their own.
	return strings.ReplaceAll(out, "\n", "")
}

// StripANSI removes ANSI color sequences from s.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
