package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
	Repeat   bool     // flag may be given more than once
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"date": {Values: []string{"auto", "iso", "european", "us", "long"}},

	// File flags with glob patterns
	"theme":  {FileGlob: "*.yaml,*.yml"},
	"config": {FileGlob: "*.yaml,*.yml"},
	"css":    {FileGlob: "*.css"},

	// Directory flags
	"output-dir": {IsDir: true},
}

// buildConvertFlagSet creates a FlagSet with all convert command flags.
// This reuses the same flag registration as parseConvertFlags.
func buildConvertFlagSet() *flag.FlagSet {
	return newConvertFlagSet(&convertFlags{})
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		case "stringArray", "stringSlice":
			fd.Type = flagString
			fd.Repeat = true
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	convertFlags := extractFlagsFromFlagSet(buildConvertFlagSet())

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert markdown files to PDF",
			Flags:       convertFlags,
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:  "doctor",
			Desc:  "Check browser and environment readiness",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}},
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
	}
}

// subcommandNames lists every command except the implicit convert.
func subcommandNames() []string {
	var names []string
	for _, c := range getCommands() {
		if c.Name == "convert" {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// sanitizeDesc strips characters that would break generated scripts.
func sanitizeDesc(desc string) string {
	r := strings.NewReplacer("'", "", `"`, "", "[", "(", "]", ")")
	return r.Replace(desc)
}

// splitGlob turns "*.yaml,*.yml" into its individual patterns.
func splitGlob(glob string) []string {
	parts := strings.Split(glob, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// flagWords returns every flag spelling for word-list completion.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// generateBash writes a bash completion script. Only compgen builtins
// are used so the script works without the bash-completion package.
func generateBash(w io.Writer) error {
	cmds := getCommands()
	convert := cmds[0]

	var plainArg []string
	for _, f := range convert.Flags {
		if f.Type == flagString || f.Type == flagInt || f.Type == flagFloat {
			plainArg = append(plainArg, bashPrevPattern(f))
		}
	}

	var b strings.Builder
	b.WriteString("# bash completion for mdpress\n\n")
	b.WriteString("_mdpress() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range convert.Flags {
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s)\n", bashPrevPattern(f))
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(f.Values, " "))
			b.WriteString("            return 0\n            ;;\n")
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n", bashPrevPattern(f))
			fmt.Fprintf(&b, "            COMPREPLY=( %s$(compgen -d -- \"${cur}\") )\n", bashFileCompgen(f.FileGlob))
			b.WriteString("            return 0\n            ;;\n")
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n", bashPrevPattern(f))
			b.WriteString("            COMPREPLY=( $(compgen -d -- \"${cur}\") )\n")
			b.WriteString("            return 0\n            ;;\n")
		}
	}
	if len(plainArg) > 0 {
		fmt.Fprintf(&b, "        %s)\n", strings.Join(plainArg, "|"))
		b.WriteString("            return 0\n            ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -gt 1 ]]; then\n")
	b.WriteString("        case \"${COMP_WORDS[1]}\" in\n")
	b.WriteString("            completion)\n")
	b.WriteString("                COMPREPLY=( $(compgen -W \"bash zsh fish powershell\" -- \"${cur}\") )\n")
	b.WriteString("                return 0\n                ;;\n")
	b.WriteString("            doctor)\n")
	b.WriteString("                COMPREPLY=( $(compgen -W \"--json\" -- \"${cur}\") )\n")
	b.WriteString("                return 0\n                ;;\n")
	b.WriteString("            help)\n")
	fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W \"convert %s\" -- \"${cur}\") )\n", strings.Join(subcommandNames(), " "))
	b.WriteString("                return 0\n                ;;\n")
	b.WriteString("        esac\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    if [[ \"${cur}\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(flagWords(convert.Flags), " "))
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(subcommandNames(), " "))
	b.WriteString("    fi\n")
	fmt.Fprintf(&b, "    COMPREPLY+=( %s$(compgen -d -- \"${cur}\") )\n", bashFileCompgen(convert.FilePattern))
	b.WriteString("    return 0\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _mdpress mdpress\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// bashPrevPattern returns the case pattern matching a flag and its
// shorthand.
func bashPrevPattern(f flagDef) string {
	if f.Short != "" {
		return fmt.Sprintf("--%s|-%s", f.Long, f.Short)
	}
	return "--" + f.Long
}

// bashFileCompgen expands a glob list into one compgen call per
// pattern. compgen -X takes a single exclusion pattern, and extglob
// alternation is not available in every bash.
func bashFileCompgen(glob string) string {
	var b strings.Builder
	for _, pattern := range splitGlob(glob) {
		fmt.Fprintf(&b, "$(compgen -f -X '!%s' -- \"${cur}\") ", pattern)
	}
	return b.String()
}

// generateZsh writes a zsh completion script using _arguments.
func generateZsh(w io.Writer) error {
	cmds := getCommands()
	convert := cmds[0]

	var b strings.Builder
	b.WriteString("#compdef mdpress\n")
	b.WriteString("# zsh completion for mdpress\n\n")
	b.WriteString("_mdpress() {\n")
	b.WriteString("    local context state state_descr line\n")
	b.WriteString("    typeset -A opt_args\n\n")
	b.WriteString("    _arguments -C \\\n")
	for _, f := range convert.Flags {
		fmt.Fprintf(&b, "        %s \\\n", zshSpec(f))
	}
	b.WriteString("        '1: :->first' \\\n")
	fmt.Fprintf(&b, "        '*:markdown file:_files -g %q'\n\n", zshGlob(convert.FilePattern))
	b.WriteString("    case $state in\n")
	b.WriteString("        first)\n")
	b.WriteString("            _alternative \\\n")
	fmt.Fprintf(&b, "                'commands:command:(%s)' \\\n", strings.Join(subcommandNames(), " "))
	fmt.Fprintf(&b, "                'files:markdown file:_files -g %q'\n", zshGlob(convert.FilePattern))
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _mdpress mdpress\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshSpec renders one _arguments spec for a flag.
func zshSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":file:_files -g %q", zshGlob(f.FileGlob))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value:"
	}

	desc := sanitizeDesc(f.Desc)
	if f.Short != "" {
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
	}
	prefix := ""
	if f.Repeat {
		prefix = "*"
	}
	return fmt.Sprintf("'%s--%s[%s]%s'", prefix, f.Long, desc, action)
}

// zshGlob turns "*.yaml,*.yml" into the zsh alternation "*.(yaml|yml)".
func zshGlob(glob string) string {
	var exts []string
	for _, pattern := range splitGlob(glob) {
		exts = append(exts, strings.TrimPrefix(pattern, "*."))
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// generateFish writes a fish completion script, one complete call per
// flag and command.
func generateFish(w io.Writer) error {
	cmds := getCommands()
	convert := cmds[0]

	var b strings.Builder
	b.WriteString("# fish completion for mdpress\n\n")

	for _, c := range cmds {
		if c.Name == "convert" {
			continue
		}
		fmt.Fprintf(&b, "complete -c mdpress -f -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, sanitizeDesc(c.Desc))
	}
	b.WriteString("complete -c mdpress -f -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish powershell'\n")
	b.WriteString("complete -c mdpress -f -n '__fish_seen_subcommand_from doctor' -l json -d 'machine-readable output'\n")
	fmt.Fprintf(&b, "complete -c mdpress -f -n '__fish_seen_subcommand_from help' -a 'convert %s'\n", strings.Join(subcommandNames(), " "))
	b.WriteString("\n")

	for _, f := range convert.Flags {
		parts := []string{"complete -c mdpress"}
		if f.Short != "" {
			parts = append(parts, "-s "+f.Short)
		}
		parts = append(parts, "-l "+f.Long)
		switch f.Type {
		case flagBool:
			// no argument
		case flagEnum:
			parts = append(parts, fmt.Sprintf("-x -a '%s'", strings.Join(f.Values, " ")))
		case flagDir:
			parts = append(parts, "-x -a '(__fish_complete_directories)'")
		default:
			parts = append(parts, "-r")
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", sanitizeDesc(f.Desc)))
		b.WriteString(strings.Join(parts, " ") + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// generatePowerShell writes a PowerShell argument completer.
func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	convert := cmds[0]

	var b strings.Builder
	b.WriteString("# powershell completion for mdpress\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName mdpress -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	fmt.Fprintf(&b, "    $commands = @(%s)\n", psList(subcommandNames()))
	fmt.Fprintf(&b, "    $flags = @(%s)\n\n", psList(flagWords(convert.Flags)))
	b.WriteString("    $words = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $prev = if ($words.Count -gt 1) { $words[$words.Count - 2] } else { '' }\n\n")
	b.WriteString("    $completions = switch ($prev) {\n")
	for _, f := range convert.Flags {
		if f.Type != flagEnum {
			continue
		}
		fmt.Fprintf(&b, "        '--%s' { @(%s) }\n", f.Long, psList(f.Values))
	}
	b.WriteString("        'completion' { @('bash', 'zsh', 'fish', 'powershell') }\n")
	b.WriteString("        'help' { $commands + @('convert') }\n")
	b.WriteString("        default {\n")
	b.WriteString("            if ($wordToComplete.StartsWith('-')) { $flags }\n")
	b.WriteString("            elseif ($words.Count -le 2) { $commands }\n")
	b.WriteString("            else { @() }\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $completions |\n")
	b.WriteString("        Where-Object { $_ -like \"$wordToComplete*\" } |\n")
	b.WriteString("        ForEach-Object { [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_) }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psList renders values as a quoted PowerShell array body.
func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpress completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdpress completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(mdpress completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdpress completion fish > ~/.config/fish/completions/mdpress.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    mdpress completion powershell | Out-String | Invoke-Expression")
}
