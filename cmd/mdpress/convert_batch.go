package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdpress "github.com/avoll/go-mdpress"
	"github.com/avoll/go-mdpress/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrReadMarkdown   = errors.New("failed to read markdown file")
	ErrReadCSS        = errors.New("failed to read CSS file")
	ErrWriteOutput    = errors.New("failed to write output file")
	ErrServiceInit    = errors.New("failed to initialize converter")
	ErrStrictWarnings = errors.New("warnings treated as errors")
)

// CLIConverter is the slice of the library the batch loop needs.
type CLIConverter interface {
	Convert(ctx context.Context, input mdpress.Input) (*mdpress.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdpress.Converter)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolFactory creates the pool once runConvert knows the final merged
// size and converter options. Indirection keeps dry runs and validation
// from ever launching a browser, and lets tests inject fakes.
type poolFactory func(size int, opts ...mdpress.Option) Pool

// defaultPoolFactory wraps the library service pool.
func defaultPoolFactory(size int, opts ...mdpress.Option) Pool {
	return &poolAdapter{pool: mdpress.NewServicePool(size, opts...)}
}

// poolAdapter bridges the library pool to the CLI Pool interface.
type poolAdapter struct {
	pool *mdpress.ServicePool
}

var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() (CLIConverter, error) {
	conv, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (a *poolAdapter) Release(c CLIConverter) {
	if conv, ok := c.(*mdpress.Converter); ok {
		a.pool.Release(conv)
	}
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

func (a *poolAdapter) Close() error { return a.pool.Close() }

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the service pool.
// Worker count is the smaller of pool size and file count; each worker
// holds one converter (one browser) for its whole run.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc, err := pool.Acquire()
			if err != nil {
				// Converter creation failed; drain remaining jobs so the
				// batch still reports every file.
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrServiceInit, err),
					}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, svc, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, service CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
		result.Duration = time.Since(start)
		return result
	}

	res, err := service.Convert(ctx, mdpress.Input{
		Markdown: string(content),
		Theme:    params.theme,
		Title:    params.title,
		Author:   params.author,
		Date:     params.date,
		BaseDir:  filepath.Dir(f.InputPath),
		ExtraCSS: params.extraCSS,
		HTMLOnly: params.htmlOnly,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Warnings = res.Warnings

	data := res.PDF
	if params.htmlOnly {
		data = []byte(res.HTML)
	}

	// #nosec G306 -- generated documents are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// promoteResultWarnings converts warning-carrying successes into
// failures. Applied before printing when strict mode is on.
func promoteResultWarnings(results []ConversionResult) {
	for i := range results {
		if results[i].Err == nil && len(results[i].Warnings) > 0 {
			results[i].Err = fmt.Errorf("%w: %d warning(s)", ErrStrictWarnings, len(results[i].Warnings))
		}
	}
}

// printResultsWithWriter outputs conversion results using the
// environment's writers and returns the failure count. Warnings always
// go to stderr unless quiet; success lines go to stdout.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if !quiet {
			for _, warning := range r.Warnings {
				fmt.Fprintf(env.Stderr, "warning: %s: %s\n", r.InputPath, warning)
			}
		}

		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
