// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command chim-mcp is the MCP server for the CHIM API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/trace"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/cfg"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/configcmd"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/base"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/golang/help"
	"github.com/rusq/chim-mcp/cmd/chim-mcp/internal/serve"
)

// secrets defines the names of the supported secret files that we load our
// secrets from.  Inexperienced Windows users might have bad experience trying
// to create .env file with the notepad as it will battle for having the
// "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

func init() {
	base.ChimMCP.Commands = []*base.Command{
		serve.CmdServe,
		configcmd.CmdConfig,
		CmdVersion,
	}
}

func main() {
	loadSecrets(secrets)

	base.Usage = mainUsage
	flag.Usage = base.Usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		base.Usage()
	}
	if args[0] == "help" {
		help.Help(os.Stdout, args[1:])
		base.Exit()
	}

	cmd, cmdArgs, err := lookupCmd(base.ChimMCP, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\nRun '%s help' for usage.\n", base.CmdName, err, base.CmdName)
		base.SetExitStatus(base.SInvalidParameters)
		base.Exit()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := invoke(ctx, cmd, cmdArgs); err != nil {
		slog.Error(base.CmdName+" "+cmd.LongName()+" failed", "error", err)
		base.SetExitStatus(base.SGenericError)
	}
	stop()
	base.Exit()
}

// loadSecrets loads secrets from the files in secrets slice.  Variables
// already present in the environment are not overwritten.
func loadSecrets(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func mainUsage() {
	help.PrintUsage(os.Stderr, base.ChimMCP)
	base.SetExitStatus(base.SHelpRequested)
	base.Exit()
}

var errUnknownCommand = errors.New("unknown command")

// lookupCmd finds the command for args, and returns it along with the
// remaining arguments.
func lookupCmd(root *base.Command, args []string) (*base.Command, []string, error) {
	cmd := root
	for len(args) > 0 {
		sub := cmd.Lookup(args[0])
		if sub == nil {
			break
		}
		cmd, args = sub, args[1:]
	}
	if cmd == root {
		if len(args) == 0 {
			return nil, nil, errUnknownCommand
		}
		return nil, args, fmt.Errorf("%w %q", errUnknownCommand, args[0])
	}
	if !cmd.Runnable() {
		if len(args) > 0 {
			return nil, args, fmt.Errorf("%w \"%s %s\"", errUnknownCommand, cmd.LongName(), args[0])
		}
		return nil, args, fmt.Errorf("%q requires a subcommand, run '%s help %s'", cmd.LongName(), base.CmdName, cmd.LongName())
	}
	return cmd, args, nil
}

// invoke parses the flags of cmd, initialises logging and tracing, and runs
// the command.
func invoke(ctx context.Context, cmd *base.Command, args []string) error {
	cfg.SetBaseFlags(&cmd.Flag, cmd.FlagMask)
	cmd.Flag.Usage = func() { cmd.Usage() }
	if err := cmd.Flag.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			base.SetExitStatus(base.SHelpRequested)
			return nil
		}
		base.SetExitStatus(base.SInvalidParameters)
		return err
	}
	args = cmd.Flag.Args()

	lg, err := initLog(logOptions{
		Filename: cfg.LogFile,
		JSON:     cfg.JSONHandler,
		Verbose:  cfg.Verbose,
	})
	if err != nil {
		base.SetExitStatus(base.SInitializationError)
		return err
	}
	cfg.Log = lg

	stopTrace := initTrace(lg, cfg.TraceFile)
	defer stopTrace()

	ctx, task := trace.NewTask(ctx, "command")
	defer task.End()
	trace.Log(ctx, "command", cmd.LongName())

	return cmd.Run(ctx, cmd, args)
}
