// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wangtaoking1/soundboard-remote/flag"
	"github.com/wangtaoking1/soundboard-remote/utils/term"
)

var progressMessage = color.GreenString("==>")

// FormatExecName is formatted as an executable file name under different
// operating systems according to the given name.
func FormatExecName(name string) string {
	// Make case-insensitive and strip executable suffix if present
	if runtime.GOOS == "windows" {
		name = strings.ToLower(name)
		name = strings.TrimSuffix(name, ".exe")
	}

	return name
}

// addHelpFlag adds help flag to the specified FlagSet object.
func addHelpFlag(name string, fs *pflag.FlagSet) {
	fs.BoolP("help", "h", false, fmt.Sprintf("Help for %s.", name))
}

// addCmdTemplate prints the root flags grouped by section. Sub commands list
// their own flags before the inherited sections.
func addCmdTemplate(cmd *cobra.Command, namedFlagSets flag.NamedFlagSets) {
	usageFmt := "Usage:\n  %s\n"
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	printCommands := func(w io.Writer, c *cobra.Command) {
		if !c.HasAvailableSubCommands() {
			return
		}
		writeString(w, "\nAvailable Commands:\n")
		for _, sub := range c.Commands() {
			if sub.IsAvailableCommand() {
				writeString(w, fmt.Sprintf("  %-16s %s\n", sub.Name(), sub.Short))
			}
		}
	}
	printLocal := func(w io.Writer, c *cobra.Command) {
		if c == cmd || !c.HasAvailableLocalFlags() {
			return
		}
		writeString(w, "\nFlags:\n"+c.LocalFlags().FlagUsagesWrapped(cols))
	}
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		writeString(c.OutOrStderr(), fmt.Sprintf(usageFmt, c.UseLine()))
		printCommands(c.OutOrStderr(), c)
		printLocal(c.OutOrStderr(), c)
		flag.PrintSections(c.OutOrStderr(), namedFlagSets, cols)

		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		long := c.Long
		if long == "" {
			long = c.Short
		}
		writeString(c.OutOrStdout(), fmt.Sprintf("%s\n\n"+usageFmt, long, c.UseLine()))
		printCommands(c.OutOrStdout(), c)
		printLocal(c.OutOrStdout(), c)
		flag.PrintSections(c.OutOrStdout(), namedFlagSets, cols)
	})
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

func printWorkingDir(w io.Writer) {
	wd, _ := os.Getwd()
	writeString(w, fmt.Sprintf("%v WorkingDir: %s\n", progressMessage, wd))
}
