// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wangtaoking1/soundboard-remote/errors"
)

// Command is the Interface of command.
type Command interface {
	// AddCommands add children commands to the Command.
	AddCommands(cmds ...Command)
	// Command returns the cobra command instance of the Command.
	Command() *cobra.Command
}

// command is a sub command structure of an application.
// It is recommended that a command be created with the app.NewCommand()
// function.
type command struct {
	use         string
	short       string
	description string
	options     CmdOptions
	commands    []Command
	args        cobra.PositionalArgs
	runFunc     RunFunc
}

// CommandOption defines optional parameters for initializing the command
// structure.
type CommandOption func(*command)

// WithCmdOptions sets options local to the command. They are validated before
// the command runs.
func WithCmdOptions(opt CmdOptions) CommandOption {
	return func(c *command) {
		c.options = opt
	}
}

// WithCmdDescription is used to set the description of the command.
func WithCmdDescription(desc string) CommandOption {
	return func(c *command) {
		c.description = desc
	}
}

// WithCmdArgs sets the validation function of the positional arguments.
func WithCmdArgs(args cobra.PositionalArgs) CommandOption {
	return func(c *command) {
		c.args = args
	}
}

// WithCmdRunFunc is used to set the application's command startup callback
// function option.
func WithCmdRunFunc(run RunFunc) CommandOption {
	return func(c *command) {
		c.runFunc = run
	}
}

// NewCommand creates a new sub command instance. use is the one-line usage,
// the first word of which is the command name, like "play <group> <sound>".
func NewCommand(use string, short string, opts ...CommandOption) Command {
	c := &command{
		use:   use,
		short: short,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *command) name() string {
	name, _, _ := strings.Cut(c.use, " ")

	return name
}

func (c *command) AddCommands(cmds ...Command) {
	c.commands = append(c.commands, cmds...)
}

func (c *command) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.use,
		Short: c.short,
		Long:  c.description,
		Args:  c.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = false

	for _, sub := range c.commands {
		cmd.AddCommand(sub.Command())
	}
	if c.runFunc != nil {
		cmd.RunE = c.runCommand
	}
	if c.options != nil {
		fs := cmd.Flags()
		for _, f := range c.options.Flags().FlagSets {
			fs.AddFlagSet(f)
		}
	}
	addHelpFlag(c.name(), cmd.Flags())

	return cmd
}

func (c *command) runCommand(cmd *cobra.Command, args []string) error {
	if c.options != nil {
		if errs := c.options.Validate(); len(errs) != 0 {
			return errors.NewAggregate(errs)
		}
	}

	return c.runFunc(cmd.Context(), args)
}
