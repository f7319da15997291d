package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/npm-check-install/internal/checkinstall"
	"github.com/conn-castle/npm-check-install/internal/config"
	"github.com/conn-castle/npm-check-install/internal/logging"
	"github.com/conn-castle/npm-check-install/internal/messages"
	"github.com/conn-castle/npm-check-install/internal/npm"
	"github.com/conn-castle/npm-check-install/internal/pkgspec"
	"github.com/conn-castle/npm-check-install/internal/plan"
	"github.com/conn-castle/npm-check-install/internal/projectlock"
	"github.com/conn-castle/npm-check-install/internal/terminal"
)

// newSystem is a seam for tests.
var newSystem = func() npm.System { return npm.RealSystem{} }

type rootFlags struct {
	packages   string
	workingDir string
	configPath string
	npmPath    string
	registry   string
	proxy      string
	httpsProxy string
	logLevel   string
	logFormat  string
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckInstall(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.packages, "packages", "p", "", messages.FlagPackages)
	f.StringVarP(&flags.workingDir, "working-dir", "C", "", messages.FlagWorkingDir)
	f.StringVar(&flags.configPath, "config", "", messages.FlagConfig)
	f.StringVar(&flags.npmPath, "npm", "", messages.FlagNpm)
	f.StringVar(&flags.registry, "registry", "", messages.FlagRegistry)
	f.StringVar(&flags.proxy, "proxy", "", messages.FlagProxy)
	f.StringVar(&flags.httpsProxy, "https-proxy", "", messages.FlagHTTPSProxy)
	f.StringVar(&flags.logLevel, "log-level", "", messages.FlagLogLevel)
	f.StringVar(&flags.logFormat, "log-format", "", messages.FlagLogFormat)
	f.BoolVar(&flags.dryRun, "dry-run", false, messages.FlagDryRun)
	return cmd
}

func runCheckInstall(cmd *cobra.Command, flags *rootFlags, args []string) error {
	if flags.packages != "" && len(args) > 0 {
		return errors.New(messages.FlagPackagesBoth)
	}
	packages := flags.packages
	if packages == "" {
		packages = strings.Join(args, " ")
	}

	cwd, err := getwd()
	if err != nil {
		return err
	}
	settings, err := config.Resolve(cwd, config.Overrides{
		ConfigPath: flags.configPath,
		WorkingDir: flags.workingDir,
		Packages:   packages,
		NpmPath:    flags.npmPath,
		Registry:   flags.registry,
		Proxy:      flags.proxy,
		HTTPSProxy: flags.httpsProxy,
		LogLevel:   flags.logLevel,
		LogFormat:  flags.logFormat,
	})
	if err != nil {
		return err
	}

	logger := logging.New(settings.LogLevel, settings.LogFormat, cmd.ErrOrStderr())
	logger.Debug(messages.LogResolvedRun,
		"dir", settings.WorkingDir,
		"config", settings.ConfigPath,
		"npm", settings.NpmPath,
		"dry_run", flags.dryRun,
	)

	desired, err := pkgspec.Parse(settings.Packages)
	if err != nil {
		return err
	}

	env, err := settings.NpmEnv()
	if err != nil {
		return err
	}
	runner, err := npm.NewRunner(newSystem(), npm.Options{
		Path:       settings.NpmPath,
		Dir:        settings.WorkingDir,
		Registry:   settings.Registry,
		Proxy:      settings.Proxy,
		HTTPSProxy: settings.HTTPSProxy,
		Env:        env,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}, logger)
	if err != nil {
		return err
	}

	var result checkinstall.Result
	err = projectlock.With(cmd.Context(), settings.WorkingDir, logger, func() error {
		var runErr error
		result, runErr = checkinstall.Run(cmd.Context(), checkinstall.Options{
			Spec:      desired,
			Lister:    runner,
			Installer: runner,
			Logger:    logger,
			DryRun:    flags.dryRun,
		})
		return runErr
	})
	if err != nil {
		return err
	}
	printOutcome(cmd.OutOrStdout(), result)
	return nil
}

func printOutcome(out io.Writer, result checkinstall.Result) {
	switch result.Outcome {
	case checkinstall.OutcomeNothingToInstall:
		_, _ = fmt.Fprintln(out, messages.OutcomeNothingToInstall)
	case checkinstall.OutcomeInstalled:
		_, _ = paint(out, color.FgGreen).Fprintf(out, messages.OutcomeInstalledFmt, result.Delta.String())
	case checkinstall.OutcomePlanned:
		_, _ = paint(out, color.FgCyan).Fprintf(out, messages.OutcomePlannedFmt, result.Delta.String())
		_, _ = fmt.Fprintln(out, messages.OutcomePlanHeader)
		_, _ = fmt.Fprint(out, plan.Render(result.Delta, result.Installed))
	}
}

// paint returns a color that is only applied when w is a terminal.
func paint(w io.Writer, attr color.Attribute) *color.Color {
	c := color.New(attr)
	if terminal.IsTerminal(w) && !color.NoColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
