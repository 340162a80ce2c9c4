package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdBuild   = "build"
	cmdExtract = "extract"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := loadDotEnv(envFile); err != nil {
		fmt.Fprintf(env.Stderr, "warning: %v\n", err)
	}

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, env)
	stop()
	os.Exit(code)
}

// runMain dispatches the command named in args[1] and returns the exit code.
// Arguments that do not start with a command name run build.
func runMain(ctx context.Context, args []string, env *Environment) int {
	warnUnknownEnvVars(env.Stderr)

	rest := args[1:]
	cmd := cmdBuild
	if len(rest) > 0 && isCommand(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "cv2pdf %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return ExitSuccess
	case cmdHelp:
		runHelp(rest, env)
		return ExitSuccess
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdExtract:
		flags, positional, err := parseExtractFlags(rest)
		if err != nil {
			return flagErrorCode(err)
		}
		env.Logger = newLogger(env.Stderr, flags.common.verbose)
		return report(runExtract(ctx, positional, flags, env), env)
	}

	flags, positional, err := parseBuildFlags(rest)
	if err != nil {
		return flagErrorCode(err)
	}
	env.Logger = newLogger(env.Stderr, flags.common.verbose)
	if flags.common.verbose {
		env.Logger.Debug().Int("gomaxprocs", runtime.GOMAXPROCS(0)).Msg("runtime")
	}
	return report(runBuild(ctx, positional, flags, env), env)
}

// isCommand reports whether arg names a command.
func isCommand(arg string) bool {
	switch arg {
	case cmdBuild, cmdExtract, cmdDoctor, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// report prints the diagnostic for err and returns its exit code.
func report(err error, env *Environment) int {
	if err == nil {
		return ExitSuccess
	}
	printDiagnostic(env.Stderr, err, env.Config)
	env.Logger.Debug().Err(err).Int("exit", exitCodeFor(err)).Msg("failed")
	return exitCodeFor(err)
}

// flagErrorCode maps a flag parsing error to an exit code. pflag has
// already printed the error or the usage.
func flagErrorCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	return ExitUsage
}
