package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/averauld/twr/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: a no-op unless invoked by the completion hook.
	completion().Complete("twrc")

	cmd.LoadEnv()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"accounts": {},
			"history": {Flags: map[string]complete.Predictor{
				"a":       predict.Nothing,
				"from":    predict.Nothing,
				"to":      predict.Nothing,
				"live":    predict.Nothing,
				"summary": predict.Nothing,
			}},
			"total": {Flags: map[string]complete.Predictor{
				"from":    predict.Nothing,
				"to":      predict.Nothing,
				"live":    predict.Nothing,
				"history": predict.Nothing,
			}},
			"topic": {Args: predict.Set{"twr", "cashflows", "aggregation", "live", "readme", "*"}},
		},
		Flags: map[string]complete.Predictor{
			"base-url": predict.Nothing,
			"token":    predict.Nothing,
			"v":        predict.Nothing,
		},
	}
}
