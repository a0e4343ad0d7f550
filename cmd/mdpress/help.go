package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpress [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown documents to themed PDFs.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Inputs may be files, directories (searched recursively) or glob")
	fmt.Fprintln(w, "patterns like 'docs/*.md'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor      Check browser, environment and config status")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdpress help convert' for the full flag reference.")
}

// printConvertUsage prints the flag reference for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpress [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown files to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files, directories, or glob patterns")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (single input only)")
	fmt.Fprintln(w, "  -d, --output-dir <dir>    Output directory for generated files")
	fmt.Fprintln(w, "      --html-only           Write styled HTML instead of PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "  -t, --theme <path>        Theme file (.yaml)")
	fmt.Fprintln(w, "      --no-theme            Ignore the theme and use built-in defaults")
	fmt.Fprintln(w, "      --css <path>          Extra CSS appended after theme styles (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Document title (default: first heading)")
	fmt.Fprintln(w, "      --author <s>          Document author")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal text")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                            Use [text] to escape literals: [Date]: YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Validation:")
	fmt.Fprintln(w, "      --validate            Validate the theme file and exit")
	fmt.Fprintln(w, "      --strict              Treat warnings as errors")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Runtime:")
	fmt.Fprintln(w, "      --timeout <dur>       Per-document render timeout (e.g. 45s, 2m)")
	fmt.Fprintln(w, "      --browser <path>      Chrome or Chromium binary to render with")
	fmt.Fprintln(w, "      --config <name|path>  Config file (default: .mdpress.yaml)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "      --dry-run             Show what would be converted without converting")
	fmt.Fprintln(w, "  -q, --quiet               Only report failures")
	fmt.Fprintln(w, "  -v, --verbose             Show per-file timing and pool details")
	fmt.Fprintln(w, "      --version             Print version and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDPRESS_THEME, MDPRESS_OUTPUT_DIR, MDPRESS_BROWSER,")
	fmt.Fprintln(w, "  MDPRESS_TIMEOUT, MDPRESS_CONFIG")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Precedence: flags > environment > config file > defaults.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: mdpress doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser, environment and config status.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdpress version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdpress help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
