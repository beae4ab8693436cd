// Package catalog declares console commands in YAML or TOML files and
// registers them into a namespace.
//
// A catalog lists directories and commands. Each command declares its
// parameters and an output template in which ${name} expands to the bound
// value of parameter name:
//
//	version: "1.0"
//	directories:
//	  - name: tools
//	    commands:
//	      - name: greet
//	        output: "hello ${who}"
//	        params:
//	          - {name: who, type: string, optional: true, default: world}
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"cmdconsole/internal/version"
)

// Format is a catalog file syntax.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("catalog %s: unsupported extension %q", path, filepath.Ext(path))
}

// Catalog is the decoded form of a catalog file.
type Catalog struct {
	Version     string          `yaml:"version" toml:"version"`
	Commands    []CommandSpec   `yaml:"commands" toml:"commands"`
	Directories []DirectorySpec `yaml:"directories" toml:"directories"`

	// Source is the file the catalog was read from, if any.
	Source string `yaml:"-" toml:"-"`
}

// DirectorySpec declares a directory and its contents.
type DirectorySpec struct {
	Name        string          `yaml:"name" toml:"name"`
	Description string          `yaml:"description" toml:"description"`
	Commands    []CommandSpec   `yaml:"commands" toml:"commands"`
	Directories []DirectorySpec `yaml:"directories" toml:"directories"`
}

// CommandSpec declares a command.
type CommandSpec struct {
	Name        string      `yaml:"name" toml:"name"`
	Description string      `yaml:"description" toml:"description"`
	Params      []ParamSpec `yaml:"params" toml:"params"`
	// Output is written to the console, one message per line.
	Output string `yaml:"output" toml:"output"`
	// Fail, when set, makes the command fail with this message after
	// writing Output.
	Fail string `yaml:"fail" toml:"fail"`
}

// ParamSpec declares a parameter.
type ParamSpec struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description" toml:"description"`
	// Type is bool, int, double, string or flag. Empty means string.
	Type     string `yaml:"type" toml:"type"`
	Optional bool   `yaml:"optional" toml:"optional"`
	// Default is the value of an optional parameter left off the line.
	Default any `yaml:"default" toml:"default"`
	// DefaultEnv names a variable that, when set, overrides Default. It is
	// read each time the command is bound unless Lazy is set.
	DefaultEnv string `yaml:"default_env" toml:"default_env"`
	// Lazy reads DefaultEnv once, when the default is first needed, and
	// keeps that value for the life of the namespace.
	Lazy bool `yaml:"lazy" toml:"lazy"`
	// Values constrains a string parameter.
	Values []string `yaml:"values" toml:"values"`
	// ValuesEnv names a variable holding a comma separated value set that
	// replaces Values while it is set. It is read on every bind.
	ValuesEnv string `yaml:"values_env" toml:"values_env"`
}

// Load reads and decodes the catalog at path.
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	c.Source = path
	return c, nil
}

// Parse decodes a catalog. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Catalog, error) {
	var c Catalog
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("decode toml: unknown keys %s", strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err := version.CheckCatalogVersion(c.Version); err != nil {
		return nil, err
	}
	return &c, nil
}

// CommandCount returns the number of commands declared anywhere in c.
func (c *Catalog) CommandCount() int {
	n := len(c.Commands)
	for _, d := range c.Directories {
		n += d.commandCount()
	}
	return n
}

func (d DirectorySpec) commandCount() int {
	n := len(d.Commands)
	for _, sub := range d.Directories {
		n += sub.commandCount()
	}
	return n
}
