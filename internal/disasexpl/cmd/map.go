package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"disasexpl/internal/disasexpl/styles"
	"disasexpl/internal/document"
)

var mapCmd = &cobra.Command{
	Use:   "map FILE",
	Short: "Show which listing lines each source line produced",
	Example: `
# Map source lines to listing lines
disasexpl map build/main.S

# Only source line 12
disasexpl map --line 12 build/main.S
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		doc := document.Load(args[0], s.parser, s.filter)
		if doc.Err != nil {
			return doc.Err
		}

		line, _ := cmd.Flags().GetInt("line")
		md := sourceMapMarkdown(doc, line)
		if term.IsTerminal(os.Stdout.Fd()) {
			width, _, err := term.GetSize(os.Stdout.Fd())
			if err != nil || width <= 0 {
				width = 80
			}
			md = styles.RenderMarkdown(md, width-2)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), md)
		return err
	},
}

func init() {
	mapCmd.Flags().IntP("line", "l", 0, "Only show this 1-based source line")
}

// sourceMapMarkdown renders the source map as a markdown table with 1-based
// line numbers. only selects a single source line when positive.
func sourceMapMarkdown(doc *document.Document, only int) string {
	m := doc.SourceMap()
	src := make([]int, 0, len(m))
	for line := range m {
		if only > 0 && line != only-1 {
			continue
		}
		src = append(src, line)
	}
	sort.Ints(src)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", doc.Path)
	if len(src) == 0 {
		sb.WriteString("No source lines.\n")
		return sb.String()
	}
	sb.WriteString("| Source | Listing | First instruction |\n")
	sb.WriteString("|-------:|:--------|:------------------|\n")
	lines := doc.Lines()
	for _, line := range src {
		asmLines := m[line]
		nums := make([]string, len(asmLines))
		for i, idx := range asmLines {
			nums[i] = fmt.Sprint(idx + 1)
		}
		first := strings.TrimSpace(lines[asmLines[0]].Text)
		first = strings.ReplaceAll(first, "|", `\|`)
		fmt.Fprintf(&sb, "| %d | %s | `%s` |\n", line+1, strings.Join(nums, ", "), first)
	}
	return sb.String()
}
