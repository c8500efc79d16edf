// Package config loads the settings that control how listings are filtered
// and where a source file's disassembly is found.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"disasexpl/internal/asm"

	"github.com/invopop/jsonschema"
)

// FileName is the per-workspace configuration file.
const FileName = ".disasexpl.json"

// Environment overrides, applied after the file.
const (
	EnvHideFunctions = "DISASEXPL_HIDE_FUNCTIONS"
	EnvBinary        = "DISASEXPL_BINARY"
	EnvTrim          = "DISASEXPL_TRIM"
)

// Config represents the disasexpl configuration.
type Config struct {
	Trim             bool              `json:"trim" jsonschema:"title=Trim,description=Collapse whitespace and indentation,default=true"`
	Binary           bool              `json:"binary" jsonschema:"title=Binary,description=Parse objdump-style listings instead of assembler source"`
	StripCommentOnly bool              `json:"commentOnly" jsonschema:"title=Strip Comments,description=Drop lines that only hold a comment"`
	StripDirectives  bool              `json:"directives" jsonschema:"title=Strip Directives,description=Drop assembler directives,default=true"`
	StripDeadLabels  bool              `json:"labels" jsonschema:"title=Strip Labels,description=Drop labels nothing refers to,default=true"`
	Indent           string            `json:"indent,omitempty" jsonschema:"title=Indent,description=How trimmed lines keep their indentation,enum=marker,enum=strip"`
	HideFunctions    string            `json:"hideFunctions,omitempty" jsonschema:"title=Hide Functions,description=Regular expression of functions hidden in binary listings"`
	Associations     map[string]string `json:"associations,omitempty" jsonschema:"title=Associations,description=Source glob to disassembly path template"`

	// Workspace is the directory the configuration was loaded for.
	Workspace string `json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	f := asm.DefaultFilter()
	return &Config{
		Trim:             f.Trim,
		Binary:           f.Binary,
		StripCommentOnly: f.StripCommentOnly,
		StripDirectives:  f.StripDirectives,
		StripDeadLabels:  f.StripDeadLabels,
		Indent:           f.Indent.String(),
		HideFunctions:    asm.DefaultHiddenFunctions.String(),
	}
}

// Load reads the configuration for workspace. An empty path means
// FileName inside the workspace, which may be absent; an explicit path
// must exist.
func Load(workspace, path string) (*Config, error) {
	cfg := Default()
	cfg.Workspace = workspace

	explicit := path != ""
	if !explicit {
		path = filepath.Join(workspace, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !explicit && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvHideFunctions); ok {
		c.HideFunctions = v
	}
	for name, dst := range map[string]*bool{EnvBinary: &c.Binary, EnvTrim: &c.Trim} {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = b
	}
	return nil
}

// Filter returns the line filter described by c.
func (c *Config) Filter() (asm.Filter, error) {
	f := asm.Filter{
		Trim:             c.Trim,
		Binary:           c.Binary,
		StripCommentOnly: c.StripCommentOnly,
		StripDirectives:  c.StripDirectives,
		StripDeadLabels:  c.StripDeadLabels,
	}
	if err := f.Indent.UnmarshalText([]byte(c.Indent)); err != nil {
		return asm.Filter{}, err
	}
	return f, nil
}

// Parser returns a parser hiding the functions matched by HideFunctions.
func (c *Config) Parser() (*asm.Parser, error) {
	if c.HideFunctions == "" {
		return asm.NewParser(), nil
	}
	re, err := regexp.Compile(c.HideFunctions)
	if err != nil {
		return nil, fmt.Errorf("invalid hideFunctions pattern: %w", err)
	}
	return asm.NewParser(asm.WithHiddenFunctions(re)), nil
}

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	bts, err := json.MarshalIndent(reflector.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return bts, nil
}
