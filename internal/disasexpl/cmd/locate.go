package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"disasexpl/internal/document"
	"disasexpl/internal/pathvars"
)

var locateCmd = &cobra.Command{
	Use:   "locate SOURCE",
	Short: "Print the listing path associated with a source file",
	Long: `Print the listing path for a source file. The first association in the
configuration whose glob matches decides the path template; without one the
extension is replaced by .S.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		source, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve source path: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), document.Locate(source, s.cfg.Workspace, s.cfg.Associations))
		return err
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve TEMPLATE",
	Short: "Expand ${variable} placeholders in a path template",
	Example: `
disasexpl resolve --file src/main.c '${workspaceFolder}/build/${fileBasenameNoExtension}.s'
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		workspace, _ := cmd.Flags().GetString("workspace")
		if workspace == "" {
			var err error
			if workspace, err = ResolveCwd(cmd); err != nil {
				return err
			}
		}
		if file != "" && !filepath.IsAbs(file) {
			file = filepath.Join(workspace, file)
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), pathvars.New(workspace, file).Resolve(args[0]))
		return err
	},
}

func init() {
	resolveCmd.Flags().StringP("file", "f", "", "File the template is resolved for")
	resolveCmd.Flags().StringP("workspace", "w", "", "Workspace folder (default: --cwd or the current directory)")
}
