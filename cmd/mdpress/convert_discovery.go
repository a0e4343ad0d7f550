package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdpress "github.com/avoll/go-mdpress"
)

// Sentinel errors for input discovery.
var (
	ErrNoInput            = errors.New("no input files specified")
	ErrNoMatches          = errors.New("no markdown files found")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// expandInputs resolves positional arguments to concrete markdown files.
// Each argument may be a file path, a directory (searched recursively)
// or a glob pattern. Order is preserved and duplicates collapse to the
// first occurrence. A pattern that matches nothing yields a warning;
// only an empty overall result is an error.
func expandInputs(args []string, outputDir string) ([]FileToConvert, []string, error) {
	if len(args) == 0 {
		return nil, nil, ErrNoInput
	}

	var files []FileToConvert
	var warnings []string
	seen := make(map[string]bool)

	add := func(inputPath, baseInputDir string) {
		if seen[inputPath] {
			return
		}
		seen[inputPath] = true
		files = append(files, FileToConvert{
			InputPath:  inputPath,
			OutputPath: resolveOutputPath(inputPath, outputDir, baseInputDir),
		})
	}

	for _, arg := range args {
		info, statErr := os.Stat(arg)

		switch {
		case statErr == nil && info.IsDir():
			found, err := discoverDir(arg)
			if err != nil {
				return nil, nil, err
			}
			if len(found) == 0 {
				warnings = append(warnings, fmt.Sprintf("no markdown files in directory %s", arg))
			}
			for _, path := range found {
				add(path, arg)
			}

		case statErr == nil:
			// Explicitly named files must be markdown; globs and
			// directory scans filter silently instead.
			if err := validateMarkdownExtension(arg); err != nil {
				return nil, nil, err
			}
			add(arg, "")

		case hasGlobMeta(arg):
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: bad pattern %q: %v", ErrUsage, arg, err)
			}
			matched := 0
			for _, match := range matches {
				if !isMarkdownFile(match) {
					continue
				}
				if matchInfo, err := os.Stat(match); err != nil || matchInfo.IsDir() {
					continue
				}
				add(match, "")
				matched++
			}
			if matched == 0 {
				warnings = append(warnings, fmt.Sprintf("no markdown files match pattern %s", arg))
			}

		default:
			return nil, nil, fmt.Errorf("%w: file not found: %s", ErrNoMatches, arg)
		}
	}

	if len(files) == 0 {
		return nil, warnings, fmt.Errorf("%w in %s", ErrNoMatches, strings.Join(args, ", "))
	}

	return files, warnings, nil
}

// discoverDir walks a directory tree collecting markdown files.
func discoverDir(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isMarkdownFile(path) {
			return nil
		}
		found = append(found, path)
		return nil
	})
	return found, err
}

// resolveOutputPath determines the PDF output path for a markdown file.
// With no output directory the PDF lands next to its source. When the
// file came from a directory scan, the subtree below baseInputDir is
// mirrored under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// isMarkdownFile reports whether the path carries a markdown extension.
func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdpress.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdpress.MaxPoolSize)
	}
	return nil
}

// hasGlobMeta reports whether the pattern contains glob metacharacters.
func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, ".pdf") + ".html"
}
