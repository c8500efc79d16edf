package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"disasexpl/internal/disasm"
	"disasexpl/internal/elfx"
)

var objdumpCmd = &cobra.Command{
	Use:   "objdump ELF",
	Short: "Write an objdump -d -l style listing of an ELF binary",
	Long: `Disassemble the functions of an x86-64 or AArch64 ELF binary. Source
positions come from the DWARF line table when the binary has one. The output
is the listing format read by --binary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		im, err := elfx.Open(args[0])
		if err != nil {
			return err
		}
		defer im.Close()

		slog.Debug("Opened binary", "path", args[0], "machine", im.Machine, "functions", len(im.Funcs), "lineRows", len(im.Lines))
		return disasm.WriteListing(cmd.OutOrStdout(), im)
	},
}
