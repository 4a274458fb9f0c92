// Package cmd implements the CLI application that reports account
// performance from a brokerage gateway.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/averauld/twr"
	"github.com/averauld/twr/broker"
	"github.com/averauld/twr/date"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "reporting")
	c.Register(&historyCmd{}, "reporting")
	c.Register(&totalCmd{}, "reporting")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var baseURL = flag.String("base-url", "", "Brokerage gateway base URL. Defaults to $BROKER_API_URL.")
var apiToken = flag.String("token", "", "Brokerage gateway API token. Defaults to $BROKER_API_TOKEN.")
var verbose = flag.Bool("v", false, "Enable debug logging.")

// LoadEnv loads a local .env file if one exists, so the gateway URL and
// token can live next to the working directory instead of in shell config.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}
}

// NewComputer builds the gateway client and the engine from the app flags.
func NewComputer() (*twr.Computer, error) {
	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	}

	url := *baseURL
	if url == "" {
		url = os.Getenv("BROKER_API_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("no gateway URL: set -base-url or BROKER_API_URL")
	}
	token := *apiToken
	if token == "" {
		token = os.Getenv("BROKER_API_TOKEN")
	}

	return twr.NewComputer(broker.New(url, token), log), nil
}

// parseWindow turns the -from and -to flags into a day range. Empty flags
// leave the corresponding side open.
func parseWindow(from, to string) (date.Range, error) {
	var r date.Range
	if from != "" {
		d, err := date.Parse(from)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -from: %w", err)
		}
		r.From = d
	}
	if to != "" {
		d, err := date.Parse(to)
		if err != nil {
			return date.Range{}, fmt.Errorf("invalid -to: %w", err)
		}
		r.To = d
	}
	return r, nil
}

// findAccount resolves an account by id or display name.
func findAccount(accounts []twr.Account, key string) (twr.Account, bool) {
	for _, a := range accounts {
		if a.ID == key || a.Name == key {
			return a, true
		}
	}
	return twr.Account{}, false
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
