package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// outputFlags control where generated files land.
type outputFlags struct {
	output    string // explicit output file, single input only
	outputDir string // directory for generated files
}

// styleFlags select the theme and extra stylesheets.
type styleFlags struct {
	theme   string
	noTheme bool
	css     []string
}

// docFlags override document metadata.
type docFlags struct {
	title  string
	author string
	date   string
}

// runtimeFlags tune the conversion machinery.
type runtimeFlags struct {
	timeout time.Duration
	browser string
	config  string
	workers int
}

// modeFlags switch the command into alternate behaviors.
type modeFlags struct {
	validate bool
	strict   bool
	dryRun   bool
	htmlOnly bool
}

// commonFlags control output verbosity.
type commonFlags struct {
	verbose bool
	quiet   bool
}

// convertFlags aggregates all flag groups for the convert command.
type convertFlags struct {
	output      outputFlags
	style       styleFlags
	doc         docFlags
	runtime     runtimeFlags
	mode        modeFlags
	common      commonFlags
	showVersion bool
}

func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file (single input only)")
	fs.StringVarP(&f.outputDir, "output-dir", "d", "", "output directory for generated files")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVarP(&f.theme, "theme", "t", "", "theme file (.yaml)")
	fs.BoolVar(&f.noTheme, "no-theme", false, "ignore the theme and use built-in defaults")
	fs.StringArrayVar(&f.css, "css", nil, "extra CSS file appended after theme styles (repeatable)")
}

func addDocFlags(fs *flag.FlagSet, f *docFlags) {
	fs.StringVar(&f.title, "title", "", "document title (default: first heading)")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.date, "date", "", `date: "auto", "auto:FORMAT", or literal text`)
}

func addRuntimeFlags(fs *flag.FlagSet, f *runtimeFlags) {
	fs.DurationVar(&f.timeout, "timeout", 0, "per-document render timeout (e.g. 45s, 2m)")
	fs.StringVar(&f.browser, "browser", "", "Chrome or Chromium binary to render with")
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
}

func addModeFlags(fs *flag.FlagSet, f *modeFlags) {
	fs.BoolVar(&f.validate, "validate", false, "validate the theme file and exit")
	fs.BoolVar(&f.strict, "strict", false, "treat warnings as errors")
	fs.BoolVar(&f.dryRun, "dry-run", false, "show what would be converted without converting")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "write styled HTML instead of PDF")
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-file timing and pool details")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only report failures")
}

// newConvertFlagSet registers every convert flag on a fresh FlagSet.
// Shared with completion generation so the two never drift.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("mdpress", flag.ContinueOnError)

	addOutputFlags(fs, &f.output)
	addStyleFlags(fs, &f.style)
	addDocFlags(fs, &f.doc)
	addRuntimeFlags(fs, &f.runtime)
	addModeFlags(fs, &f.mode)
	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")

	return fs
}

// parseConvertFlags parses the convert flag set and returns positional
// arguments (input files, directories, glob patterns).
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if f.output.output != "" && f.output.outputDir != "" {
		return nil, nil, fmt.Errorf("%w: --output and --output-dir are mutually exclusive", ErrUsage)
	}
	if f.common.verbose && f.common.quiet {
		return nil, nil, fmt.Errorf("%w: --verbose and --quiet are mutually exclusive", ErrUsage)
	}

	return f, fs.Args(), nil
}
