package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"disasexpl/internal/asm"
	"disasexpl/internal/config"
	"disasexpl/internal/disasexpl/log"
	"disasexpl/internal/document"
	"disasexpl/internal/ui/colorize"
)

// ErrLoadFailed is returned when at least one listing could not be read.
var ErrLoadFailed = errors.New("failed to load listing")

// documentJSON is the --json form of a parsed listing.
type documentJSON struct {
	Path             string         `json:"path"`
	Error            string         `json:"error,omitempty"`
	Lines            []asm.Line     `json:"lines"`
	LabelDefinitions map[string]int `json:"labelDefinitions"`
}

// settings is the effective configuration of one invocation.
type settings struct {
	cfg    *config.Config
	filter asm.Filter
	parser *asm.Parser
}

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default: <workspace>/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.PersistentFlags().BoolP("binary", "b", false, "Input is an objdump listing or an ELF binary")
	rootCmd.PersistentFlags().Bool("no-trim", false, "Keep original whitespace")
	rootCmd.PersistentFlags().Bool("strip-comments", false, "Drop comment-only lines")
	rootCmd.PersistentFlags().Bool("keep-directives", false, "Keep assembler directives")
	rootCmd.PersistentFlags().Bool("keep-labels", false, "Keep labels nothing refers to")
	rootCmd.PersistentFlags().Bool("strip-indent", false, "Delete indentation instead of normalizing it")
	rootCmd.PersistentFlags().String("hide", "", "Regular expression of functions hidden in binary listings")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("no-tui", "n", false, "Print the listing without the TUI")
	rootCmd.Flags().BoolP("json", "j", false, "Output parsed lines as JSON")

	rootCmd.AddCommand(labelsCmd, mapCmd, locateCmd, resolveCmd, objdumpCmd, mcpCmd, schemaCmd)
}

var rootCmd = &cobra.Command{
	Use:   "disasexpl [file...]",
	Short: "Explore compiler and disassembler output next to its source",
	Long: `Disasexpl cleans up assembly listings produced by compilers, assemblers and
objdump. It drops unused labels and directives, keeps the source line each
instruction came from, and shows the result in an interactive viewer.`,
	Example: `
# View a listing interactively
disasexpl build/main.S

# Print a cleaned listing
disasexpl --no-tui build/main.S

# Disassemble a binary and hide runtime scaffolding
disasexpl --binary ./a.out

# Read gcc output from stdin
gcc -S -g -o - main.c | disasexpl -
  `,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		tty := term.IsTerminal(os.Stdout.Fd())
		if !tty {
			noTUI = true
		}

		if !noTUI && !jsonOutput && len(args) == 1 && args[0] != document.Stdin {
			return runTUI(cmd.Context(), args[0], s)
		}

		docs, err := loadAll(cmd.Context(), args, s.parser, s.filter)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			err = writeJSON(out, docs)
		} else {
			err = writeListings(out, docs, tty && !colorize.Disabled())
		}
		if err != nil {
			return err
		}
		return loadErrors(docs)
	},
}

// loadSettings merges the configuration file, the environment and the
// command line flags.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cwd, path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("binary") {
		cfg.Binary, _ = flags.GetBool("binary")
	}
	if v, _ := flags.GetBool("no-trim"); v {
		cfg.Trim = false
	}
	if v, _ := flags.GetBool("strip-comments"); v {
		cfg.StripCommentOnly = true
	}
	if v, _ := flags.GetBool("keep-directives"); v {
		cfg.StripDirectives = false
	}
	if v, _ := flags.GetBool("keep-labels"); v {
		cfg.StripDeadLabels = false
	}
	if v, _ := flags.GetBool("strip-indent"); v {
		cfg.Indent = asm.IndentStrip.String()
	}
	if flags.Changed("hide") {
		cfg.HideFunctions, _ = flags.GetString("hide")
	}

	f, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	p, err := cfg.Parser()
	if err != nil {
		return nil, err
	}
	slog.Debug("Loaded settings", "workspace", cwd, "filter", fmt.Sprintf("%+v", f))
	return &settings{cfg: cfg, filter: f, parser: p}, nil
}

// loadAll parses paths concurrently, keeping their order.
func loadAll(ctx context.Context, paths []string, p *asm.Parser, f asm.Filter) ([]*document.Document, error) {
	docs := make([]*document.Document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i] = document.Load(path, p, f)
			slog.Debug("Parsed listing", "path", path, "lines", len(docs[i].Lines()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func loadErrors(docs []*document.Document) error {
	var errs []error
	for _, d := range docs {
		if d.Err != nil {
			slog.Warn("Failed to load listing", "path", d.Path, "error", d.Err)
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrLoadFailed, d.Path, d.Err))
		}
	}
	return errors.Join(errs...)
}

func writeListings(w io.Writer, docs []*document.Document, color bool) error {
	for i, d := range docs {
		if len(docs) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", d.Path)
		}
		text := d.Value()
		if color {
			text = colorize.ColorizeResult(d.Result)
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, docs []*document.Document) error {
	out := make([]documentJSON, 0, len(docs))
	for _, d := range docs {
		j := documentJSON{
			Path:             d.Path,
			Lines:            d.Result.Lines,
			LabelDefinitions: d.Result.LabelDefinitions,
		}
		if d.Err != nil {
			j.Error = d.Err.Error()
		}
		out = append(out, j)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func Execute() {
	// Bypass fang when the TUI is off or output is piped so plain text
	// stays unstyled.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" || arg == "--json" || arg == "-j" || arg == "mcp" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	defer log.Close()
	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return cwd, nil
}
