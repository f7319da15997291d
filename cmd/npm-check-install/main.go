package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/conn-castle/npm-check-install/internal/config"
	"github.com/conn-castle/npm-check-install/internal/failure"
	"github.com/conn-castle/npm-check-install/internal/messages"
)

// binaryName stands in for argv[0] when it is missing.
const binaryName = "npm-check-install"

var executeFunc = execute

var getwd = os.Getwd

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Exit codes reported to the build pipeline.
const (
	exitOK               = 0
	exitError            = 1
	exitMalformedInput   = 2
	exitInstalledUnknown = 3
	exitInstallFailed    = 4
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// execute runs the CLI command with the provided args and output writers.
func execute(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	cmd.SetVersionTemplate(messages.VersionTemplate)
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// runMain executes the CLI and exits with a code derived from the failing step.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	if len(args) == 0 {
		args = []string{binaryName}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := executeFunc(ctx, args, stdout, stderr)
	stop()
	if err != nil {
		_, _ = paint(stderr, color.FgRed).Fprintln(stderr, err)
		exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case failure.Is(err, failure.KindMalformedSpec), errors.Is(err, config.ErrConfigValidation):
		return exitMalformedInput
	case failure.Is(err, failure.KindInstalledStateUnavailable):
		return exitInstalledUnknown
	case failure.Is(err, failure.KindInstallFailed):
		return exitInstallFailed
	default:
		return exitError
	}
}

// versionString formats Version with optional commit and build date metadata.
func versionString() string {
	meta := []string{}
	if Commit != "" && Commit != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionCommitFmt, Commit))
	}
	if BuildDate != "" && BuildDate != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionBuildFmt, BuildDate))
	}
	if len(meta) == 0 {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(meta, ", "))
}
