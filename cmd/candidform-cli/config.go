package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// config holds the session settings. Values loaded from -config are
// overridden by flags set explicitly on the command line.
type config struct {
	Source  string `yaml:"source"`
	Method  string `yaml:"method"`
	Preset  string `yaml:"preset"`
	Output  string `yaml:"output"`
	Format  string `yaml:"format"`
	Random  bool   `yaml:"random"`
	Verbose bool   `yaml:"verbose"`
	Locale  string `yaml:"locale"`

	// Translations maps locale to label key to text; see render.Localizer.
	Translations map[string]map[string]string `yaml:"translations"`

	configPath string
	list       bool
	inspect    bool
}

const (
	formatJSON   = "json"
	formatCandid = "candid"
)

func parseConfig(fs *flag.FlagSet, args []string) (config, error) {
	var flags config
	fs.StringVar(&flags.configPath, "config", "", "YAML session config")
	fs.StringVar(&flags.Source, "source", "", "type document path (JSON or YAML)")
	fs.StringVar(&flags.Method, "method", "", "service method whose arguments are edited")
	fs.StringVar(&flags.Preset, "preset", "", "preset document with display and widget overrides")
	fs.StringVar(&flags.Output, "output", "", "output file (stdout if empty)")
	fs.StringVar(&flags.Format, "format", formatJSON, "argument output format: json or candid")
	fs.BoolVar(&flags.Random, "random", false, "fill empty fields with random values")
	fs.BoolVar(&flags.Verbose, "verbose", false, "log traversal steps to stderr")
	fs.StringVar(&flags.Locale, "locale", "", "locale used to translate labels from the config catalogue")
	fs.BoolVar(&flags.list, "list", false, "list the methods of the service")
	fs.BoolVar(&flags.inspect, "inspect", false, "print the field descriptors as JSON")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	cfg := config{Format: formatJSON}
	if flags.configPath != "" {
		data, err := os.ReadFile(flags.configPath)
		if err != nil {
			return config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return config{}, fmt.Errorf("parse config %s: %w", flags.configPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = flags.Source
		case "method":
			cfg.Method = flags.Method
		case "preset":
			cfg.Preset = flags.Preset
		case "output":
			cfg.Output = flags.Output
		case "format":
			cfg.Format = flags.Format
		case "random":
			cfg.Random = flags.Random
		case "verbose":
			cfg.Verbose = flags.Verbose
		case "locale":
			cfg.Locale = flags.Locale
		}
	})
	cfg.configPath = flags.configPath
	cfg.list = flags.list
	cfg.inspect = flags.inspect

	return cfg, cfg.validate()
}

func (c config) validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("a type document is required (-source or source in -config)")
	}
	switch c.Format {
	case formatJSON, formatCandid:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if !c.list && !c.inspect && strings.TrimSpace(c.Method) == "" {
		return errors.New("a method is required unless -list or -inspect is set")
	}
	return nil
}
