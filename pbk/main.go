package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/avrel/posbook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of completion mode.
	completion().Complete("pbk")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"currency":    predict.Something,
			"base":        predict.Something,
		},
		Sub: map[string]*complete.Command{
			"holding": {
				Flags: map[string]complete.Predictor{
					"d":       predict.Something,
					"v":       predict.Set{"trade", "base", "portfolio"},
					"prices":  predict.Files("*.json"),
					"rates":   predict.Files("*.json"),
					"sources": predict.Files("*.json"),
					"u":       predict.Nothing,
				},
			},
			"log":   {},
			"fmt":   {},
			"topic": {Args: predict.Set{"readme", "ledger", "accumulation", "views", "valuation"}},
		},
	}
}
