// Command folio reports the cost basis, profit and money-weighted return of a
// personal portfolio.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pnl/cmd"
	"github.com/etnz/pnl/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "folio")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander, flag.CommandLine)

	// Answers shell completion requests (COMP_LINE set) and exits.
	completion(flag.CommandLine).Complete("folio")

	flag.Parse()
	if err := cmd.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	if name := flag.Arg(0); name != "" && !builtin(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// builtin reports whether name is a folio subcommand rather than an
// extension.
func builtin(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// completion describes the command line for the shell: global flags, and the
// flags of every subcommand.
func completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flagPredictors(fs)}
	}
	if topics, err := docs.List(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// flagPredictors predicts file names for file flags and nothing for the
// others.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "ledger", "holdings", "rates", "flows":
			flags[f.Name] = predict.Files("*.jsonl")
		case "log-level":
			flags[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		default:
			flags[f.Name] = predict.Nothing
		}
	})
	return flags
}
