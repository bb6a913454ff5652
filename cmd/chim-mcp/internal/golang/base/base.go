// Package base defines shared basic pieces of the chim-mcp command, in
// particular the Command type and exit status handling.
//
// The command subsystem is based on golang's `go` command implementation, which
// is BSD-licensed:
//
//	Copyright 2017 The Go Authors. All rights reserved.
//	Use of this source code is governed by a BSD-style
//	license that can be found in the LICENSE file.
package base

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
)

// CmdName is the name of the executable.
const CmdName = "chim-mcp"

// A Command is an implementation of a chim-mcp command.
type Command struct {
	// Run runs the command.
	// The args are the arguments after the command name.
	Run func(ctx context.Context, cmd *Command, args []string) error

	// UsageLine is the one-line usage message.
	UsageLine string

	// Short is the short description shown in the 'chim-mcp help' output.
	Short string

	// Long is the long message shown in the 'chim-mcp help <this-command>'
	// output.
	Long string

	// Flag is a set of flags specific to this command.
	Flag flag.FlagSet

	// FlagMask is the mask of global flags that the command does not use.
	FlagMask cfg.FlagMask

	// PrintFlags indicates that generic help handler should print the
	// flags in the flagset.  Set it to false, if a Long lists all the flags.
	// It only matters for the commands that have no subcommands.
	PrintFlags bool

	// Commands lists the available commands and help topics.
	// The order here is the order in which they are printed by 'chim-mcp help'.
	Commands []*Command
}

// ChimMCP is the root command.
var ChimMCP = &Command{
	UsageLine: CmdName,
	Long:      `chim-mcp exposes the CHIM change, outage and retrospective API as Model Context Protocol tools.`,
	// Commands initialised in main.
}

var (
	exitStatus StatusCode = SNoError
	exitMu     sync.Mutex
)

// SetExitStatus sets the exit status of the program.  The status only ever
// increases.
func SetExitStatus(n StatusCode) {
	exitMu.Lock()
	if exitStatus < n {
		exitStatus = n
	}
	exitMu.Unlock()
}

// GetExitStatus returns the current exit status.
func GetExitStatus() StatusCode {
	exitMu.Lock()
	defer exitMu.Unlock()
	return exitStatus
}

var atExitFuncs []func()

// AtExit registers f to be called by Exit.
func AtExit(f func()) {
	atExitFuncs = append(atExitFuncs, f)
}

// Exit runs the functions registered with AtExit in reverse order, and exits
// with the current exit status.
func Exit() {
	runAtExit()
	os.Exit(int(GetExitStatus()))
}

func runAtExit() {
	for i := len(atExitFuncs) - 1; i >= 0; i-- {
		atExitFuncs[i]()
	}
	atExitFuncs = nil
}

// Runnable reports whether the command can be run; otherwise
// it is a documentation pseudo-command or a group of subcommands.
func (c *Command) Runnable() bool {
	return c.Run != nil
}

// LongName returns the command's long name: all the words in the usage line
// between "chim-mcp" and a flag or argument.
func (c *Command) LongName() string {
	name := c.UsageLine
	if i := strings.Index(name, " ["); i >= 0 {
		name = name[:i]
	}
	if name == CmdName {
		return ""
	}
	return strings.TrimPrefix(name, CmdName+" ")
}

// Name returns the command's short name: the last word in the usage line
// before a flag or argument.
func (c *Command) Name() string {
	name := c.LongName()
	if i := strings.LastIndex(name, " "); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Lookup returns the subcommand with the given name, or nil.
func (c *Command) Lookup(name string) *Command {
	for _, sub := range c.Commands {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

// Usage is the usage-reporting function, filled in by package main
// but here for reference by other packages.
var Usage func()

// Usage prints the usage of the command and exits.
func (c *Command) Usage() {
	fmt.Fprintf(os.Stderr, "usage: %s\n", c.UsageLine)
	fmt.Fprintf(os.Stderr, "Run '%s help %s' for details.\n", CmdName, c.LongName())
	SetExitStatus(SInvalidParameters)
	Exit()
}
