// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wangtaoking1/soundboard-remote/errors"
	"github.com/wangtaoking1/soundboard-remote/flag"
	"github.com/wangtaoking1/soundboard-remote/log"
	"github.com/wangtaoking1/soundboard-remote/version"
	"github.com/wangtaoking1/soundboard-remote/version/verflag"
)

// CmdOptions abstracts the options shared by an application and its
// commands, read from the command line, a config file and the environment.
type CmdOptions interface {
	// Flags returns all FlagSets of command by sectioned.
	Flags() (fss flag.NamedFlagSets)
	// Validate validates the options fields.
	Validate() []error
}

// CompleteableOptions are options filling derived fields before validation.
type CompleteableOptions interface {
	Complete() error
}

// PrintableOptions are options logged once resolved. Secrets must be left
// out of String.
type PrintableOptions interface {
	String() string
}

// App is the Interface of application.
type App interface {
	// Run launch the application.
	Run()

	// Command returns cobra command instance inside the application.
	Command() *cobra.Command
}

// app is the main structure of a cli application.
// It is recommended that an app be created with the app.NewApp() function.
type app struct {
	name        string
	short       string
	description string
	options     CmdOptions
	runFunc     RunFunc
	silence     bool
	noConfig    bool
	commands    []Command
	cmd         *cobra.Command
}

var _ App = (*app)(nil)

// Option defines optional parameters for initializing the application structure.
type Option func(*app)

// WithOptions to open the application's function to read from the command line
// or read parameters from the configuration file. The options are shared by
// every sub command.
func WithOptions(opt CmdOptions) Option {
	return func(a *app) {
		a.options = opt
	}
}

// RunFunc defines the startup callback of an application or a command. args
// are the positional arguments left after flag parsing.
type RunFunc func(ctx context.Context, args []string) error

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *app) {
		a.runFunc = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *app) {
		a.description = desc
	}
}

// WithSilence sets the application to silent mode, in which the program startup
// information, configuration information, and version information are not
// printed in the console.
func WithSilence() Option {
	return func(a *app) {
		a.silence = true
	}
}

// WithNoConfig set the application does not provide config flag.
func WithNoConfig() Option {
	return func(a *app) {
		a.noConfig = true
	}
}

// WithCommands set children commands for thie application.
func WithCommands(cmds ...Command) Option {
	return func(a *app) {
		a.commands = append(a.commands, cmds...)
	}
}

// NewApp creates a new application instance based on the given application name,
// binary name, and other options.
func NewApp(name string, short string, opts ...Option) App {
	a := &app{
		name:  name,
		short: short,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

func (a *app) buildCommand() {
	cmd := &cobra.Command{
		Use:   FormatExecName(a.name),
		Short: a.short,
		Long:  a.description,
		// stop printing usage when the command errors
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.prepare,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true
	flag.InitFlags(cmd.PersistentFlags())

	// add children commands
	for _, c := range a.commands {
		cmd.AddCommand(c.Command())
	}
	if a.runFunc != nil {
		cmd.RunE = a.runCommand
	} else {
		// keep the root runnable so --version is honored
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		}
	}

	var namedFlagSets flag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
		fs := cmd.PersistentFlags()
		for _, f := range namedFlagSets.FlagSets {
			fs.AddFlagSet(f)
		}
	}

	// init global flagsets
	globalFlags := namedFlagSets.FlagSet("global")
	a.initGlobalFlags(globalFlags)
	cmd.PersistentFlags().AddFlagSet(globalFlags)
	addHelpFlag(a.name, cmd.Flags())

	addCmdTemplate(cmd, namedFlagSets)
	a.cmd = cmd
}

func (a *app) initGlobalFlags(globalFlags *pflag.FlagSet) {
	verflag.AddFlags(globalFlags)
	if !a.noConfig {
		addConfigFlag(a.name, globalFlags)
	}
}

func (a *app) Run() {
	if err := a.cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func (a *app) Command() *cobra.Command {
	return a.cmd
}

// prepare runs before the application or any of its commands: it resolves the
// shared options from flags, config file and environment, then validates them.
func (a *app) prepare(cmd *cobra.Command, args []string) error {
	if !a.silence {
		printWorkingDir(cmd.OutOrStdout())
	}
	flag.PrintFlags(cmd.Flags())
	// display application version information
	verflag.PrintAndExitIfRequested()
	if !a.noConfig && a.options != nil {
		// cmd.Flags holds the inherited persistent flags once parsed.
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := viper.Unmarshal(a.options); err != nil {
			return errors.WithMessage(err, "unmarshal options")
		}
	}
	if !a.silence {
		log.Infof("%v Starting %s ...", progressMessage, a.short)
		log.Infof("%v Version: `%s`", progressMessage, version.Get().ToJSON())
		if !a.noConfig {
			log.Infof("%v Config file used: `%s`", progressMessage, viper.ConfigFileUsed())
		}
	}
	if a.options != nil {
		return a.applyOptionRules()
	}

	return nil
}

func (a *app) runCommand(cmd *cobra.Command, args []string) error {
	return a.runFunc(cmd.Context(), args)
}

func (a *app) applyOptionRules() error {
	if completeableOptions, ok := a.options.(CompleteableOptions); ok {
		if err := completeableOptions.Complete(); err != nil {
			return err
		}
	}

	if errs := a.options.Validate(); len(errs) != 0 {
		return errors.NewAggregate(errs)
	}

	if printableOptions, ok := a.options.(PrintableOptions); ok && !a.silence {
		log.Infof("%v Config: `%s`", progressMessage, printableOptions.String())
	}

	return nil
}
