package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	mdpress "github.com/avoll/go-mdpress"
	"github.com/avoll/go-mdpress/internal/config"
	"github.com/avoll/go-mdpress/internal/hints"
	"github.com/avoll/go-mdpress/theme"
)

// conversionParams groups the per-batch settings shared by every file.
type conversionParams struct {
	theme    *theme.Theme
	title    string
	author   string
	date     string
	extraCSS string
	htmlOnly bool
}

// runConvert executes the convert command end to end: merge settings,
// load and validate the theme, discover inputs, then fan the batch out
// over a converter pool. The pool is created last so dry runs,
// validation and usage errors never launch a browser.
func runConvert(ctx context.Context, args []string, flags *convertFlags, newPool poolFactory, env *Environment) error {
	if err := validateWorkers(flags.runtime.workers); err != nil {
		return err
	}

	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	cfg, err := loadConfiguration(flags)
	if err != nil {
		return err
	}
	mergeFlags(flags, cfg)

	if flags.mode.validate {
		return runValidate(cfg.Theme, cfg.Strict, env)
	}

	// Resolve "auto" date once so every file in the batch shares it.
	date := cfg.Date
	if date != "" {
		date, err = mdpress.ResolveDate(date, env.Now())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
	}

	files, warnings, err := expandInputs(args, cfg.OutputDir)
	if !flags.common.quiet {
		for _, w := range warnings {
			fmt.Fprintf(env.Stderr, "warning: %s\n", w)
		}
	}
	if err != nil {
		return err
	}

	if flags.output.output != "" {
		if len(files) > 1 {
			return fmt.Errorf("%w: --output needs a single input, got %d files (use --output-dir)", ErrUsage, len(files))
		}
		files[0].OutputPath = flags.output.output
	} else if flags.mode.htmlOnly {
		for i := range files {
			files[i].OutputPath = htmlOutputPath(files[i].OutputPath)
		}
	}

	// Theme problems surface before any work is planned or written.
	th, err := loadTheme(cfg.Theme, flags.style.noTheme, cfg.Strict, env)
	if err != nil {
		return err
	}

	if flags.mode.dryRun {
		printDryRun(files, env)
		return nil
	}

	extraCSS, err := loadExtraCSS(cfg.CSS)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg)
	if err != nil {
		return err
	}

	params := &conversionParams{
		theme:    th,
		title:    flags.doc.title,
		author:   flags.doc.author,
		date:     date,
		extraCSS: extraCSS,
		htmlOnly: flags.mode.htmlOnly,
	}

	poolSize := mdpress.ResolvePoolSize(flags.runtime.workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := newPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	results := convertBatch(ctx, pool, files, params)
	if cfg.Strict {
		promoteResultWarnings(results)
	}

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	switch {
	case failed == 0:
		return nil
	case failed == len(results):
		return fmt.Errorf("all %d conversion(s) failed", failed)
	default:
		return fmt.Errorf("%w: %d of %d", ErrBatchPartial, failed, len(results))
	}
}

// loadConfiguration assembles the effective config from the config file
// and MDPRESS_* variables. An explicitly named config that is missing is
// a hard error; the absent default config is not.
func loadConfiguration(flags *convertFlags) (*config.Config, error) {
	envCfg := loadEnvConfig()

	name := flags.runtime.config
	if name == "" {
		name = envCfg.Config
	}

	var cfg *config.Config
	var err error
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, err
		}
	} else {
		cfg, _, err = config.LoadDefault()
		if err != nil {
			return nil, err
		}
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Flag values override both
// environment and file values. The --css list replaces the config list
// rather than appending, consistent with every other flag.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.style.theme != "" {
		cfg.Theme = flags.style.theme
	}
	if flags.output.outputDir != "" {
		cfg.OutputDir = flags.output.outputDir
	}
	if len(flags.style.css) > 0 {
		cfg.CSS = flags.style.css
	}
	if flags.doc.date != "" {
		cfg.Date = flags.doc.date
	}
	if flags.runtime.timeout > 0 {
		cfg.Timeout = flags.runtime.timeout.String()
	}
	if flags.runtime.browser != "" {
		cfg.Browser = flags.runtime.browser
	}
	if flags.mode.strict {
		cfg.Strict = true
	}
}

// runValidate checks the theme file and reports every issue, without
// converting anything.
func runValidate(themePath string, strict bool, env *Environment) error {
	if themePath == "" {
		return fmt.Errorf("%w: --validate requires a theme (-t or config)", ErrUsage)
	}

	_, result, err := theme.Load(themePath)
	if err != nil {
		if result != nil {
			printIssues(result, env.Stderr)
		}
		if errors.Is(err, theme.ErrThemeNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForThemeNotFound(themePath))
		}
		return err
	}

	if strict && len(result.Warnings) > 0 {
		result.PromoteWarnings()
		printIssues(result, env.Stderr)
		return fmt.Errorf("%w: %s", theme.ErrThemeValidation, result.Summary())
	}

	printIssues(result, env.Stderr)
	fmt.Fprintf(env.Stdout, "%s: %s\n", themePath, result.Summary())
	return nil
}

// loadTheme loads and validates the theme for the conversion run. A nil
// theme means the library's built-in defaults.
func loadTheme(path string, noTheme, strict bool, env *Environment) (*theme.Theme, error) {
	if noTheme || path == "" {
		return nil, nil
	}

	th, result, err := theme.Load(path)
	if err != nil {
		if result != nil {
			printIssues(result, env.Stderr)
		}
		if errors.Is(err, theme.ErrThemeNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForThemeNotFound(path))
		}
		return nil, err
	}

	if strict && len(result.Warnings) > 0 {
		result.PromoteWarnings()
		printIssues(result, env.Stderr)
		return nil, fmt.Errorf("%w: %s", theme.ErrThemeValidation, result.Summary())
	}

	printIssues(result, env.Stderr)
	return th, nil
}

// printIssues writes every validation finding with its kind prefix.
func printIssues(result *theme.ValidationResult, w io.Writer) {
	for _, issue := range result.Errors {
		fmt.Fprintf(w, "%s: %s\n", issue.Kind, issue)
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(w, "%s: %s\n", issue.Kind, issue)
	}
}

// loadExtraCSS concatenates the extra stylesheet files in order.
func loadExtraCSS(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrReadCSS, path, err)
		}
		sb.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// converterOptions builds library options from the merged settings.
func converterOptions(cfg *config.Config) ([]mdpress.Option, error) {
	var opts []mdpress.Option

	timeout, err := cfg.ParseTimeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, mdpress.WithTimeout(timeout))
	}
	if cfg.Browser != "" {
		opts = append(opts, mdpress.WithBrowserPath(cfg.Browser))
	}

	return opts, nil
}

// printDryRun lists the planned work without touching the filesystem.
func printDryRun(files []FileToConvert, env *Environment) {
	for _, f := range files {
		fmt.Fprintf(env.Stdout, "would convert %s -> %s\n", f.InputPath, f.OutputPath)
	}
	fmt.Fprintf(env.Stdout, "%d file(s), nothing written (dry run)\n", len(files))
}
