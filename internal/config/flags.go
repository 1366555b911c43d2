package config

// This file implements CLI flag parsing and help text.
// Flags that invert or exit (e.g. --no-color, --help) are captured as bools
// and applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args). version is injected from main for the --version output.
func ParseFlags(cfg *Config, version string) error {
	fs := flag.NewFlagSet("snapmerge", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs, version) }

	var extra extraFlags

	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &extra)
	defineUtilityFlags(fs, &extra)

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	applyExtraFlags(cfg, &extra)

	if extra.showHelp {
		printUsage(fs, version)
		os.Exit(0)
	}
	if extra.showVersion {
		fmt.Fprintln(os.Stdout, "snapmerge v"+version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// extraFlags holds boolean flags that are applied after Parse.
// These either override a default (forceColor/noColor) or trigger exit
// (showHelp, showVersion).
type extraFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineBehaviorFlags registers -o/--overwrite, -d/--dry-run.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Overwrite outputs with a matching stem")
	fs.BoolVar(&cfg.Overwrite, "o", false, "Same as --overwrite")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not write files")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, e *extraFlags) {
	fs.BoolVar(&e.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&e.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, e *extraFlags) {
	fs.BoolVar(&e.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&e.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&e.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&e.showHelp, "h", false, "Same as --help")
}

// applyExtraFlags copies override flag values into cfg.
func applyExtraFlags(cfg *Config, e *extraFlags) {
	if e.noColor {
		cfg.ColorMode = ColorNever
	} else if e.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputDir and OutputDir from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly input_dir and output_dir")
	}
	cfg.InputDir = NormalizeDirArg(args[0])
	cfg.OutputDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet, version string) {
	const col1 = 24 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "SnapMerge v" + version + " — rebuild exported memories from media and overlays"},
		{"", ""},
		{"  snapmerge [OPTIONS] <input_dir> <output_dir>", ""},
		{"", ""},
		{"Output & behavior", ""},
		{"  -o, --overwrite", "Overwrite outputs with a matching stem"},
		{"  -d, --dry-run", "Preview only; do not write files"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffmpeg, ffprobe, overlay filter)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
