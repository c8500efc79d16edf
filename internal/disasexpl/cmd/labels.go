package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"disasexpl/internal/analysis"
	"disasexpl/internal/document"
)

var labelsCmd = &cobra.Command{
	Use:   "labels FILE",
	Short: "List the live labels of a listing",
	Long: `List every label that survives filtering, with the line defining it,
its demangled name and the number of references to it.`,
	Example: `
# Show the labels of a listing
disasexpl labels build/main.S

# Include local labels as JSON
disasexpl labels --local --json build/main.S
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

		local, _ := cmd.Flags().GetBool("local")
		labels := analysis.Labels(doc.Result)
		if !local {
			labels = nonLocal(labels)
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(labels)
		}
		return writeLabels(cmd.OutOrStdout(), labels)
	},
}

func init() {
	labelsCmd.Flags().BoolP("local", "l", false, "Include assembler-local labels such as .L2")
	labelsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func nonLocal(labels []analysis.Label) []analysis.Label {
	out := labels[:0:0]
	for _, l := range labels {
		if !l.Local {
			out = append(out, l)
		}
	}
	return out
}

func writeLabels(w io.Writer, labels []analysis.Label) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tREFS\tLABEL")
	for _, l := range labels {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", l.Line, l.Refs, l.DisplayName())
	}
	return tw.Flush()
}
