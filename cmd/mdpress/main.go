package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:], DefaultEnv()))
}

// realMain dispatches subcommands and returns the process exit code.
// It takes args without the program name so tests can drive it directly.
func realMain(args []string, env *Environment) int {
	if len(args) > 0 {
		switch args[0] {
		case "doctor":
			return runDoctorCmd(args[1:], env)
		case "completion":
			if err := runCompletion(args[1:], env); err != nil {
				fmt.Fprintf(env.Stderr, "Error: %v\n", err)
				return exitCodeFor(err)
			}
			return ExitSuccess
		case "version":
			fmt.Fprintf(env.Stdout, "mdpress %s\n", Version)
			return ExitSuccess
		case "help":
			runHelp(args[1:], env)
			return ExitSuccess
		}
	}
	return runConvertCmd(args, env)
}

// runConvertCmd parses convert flags and runs the conversion pipeline.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		// pflag reports -h/--help as an error after printing usage.
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return ExitUsage
	}

	if flags.showVersion {
		fmt.Fprintf(env.Stdout, "mdpress %s\n", Version)
		return ExitSuccess
	}

	configureMaxProcs(flags.common.verbose, env)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, defaultPoolFactory, env); err != nil {
		fmt.Fprintf(env.Stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// configureMaxProcs aligns GOMAXPROCS with the container CPU quota.
// Errors are ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
// variable, and the runtime default is fine in that case.
func configureMaxProcs(verbose bool, env *Environment) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}
