// offeringctl - Offering description parser and pricing validator
//
// Usage:
//
//	offeringctl parse --file offering.ttl [--format json|table]
//	offeringctl validate --context context.yaml [--store memory|clickhouse|postgres] offering.ttl ...
//	offeringctl function --file offering.ttl [--node IRI]
//	offeringctl units
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"usdl-offering/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes for CI/CD integration
const (
	ExitRejected = 2
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		platform.LogFatal(log.Logger, "offeringctl failed", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "offeringctl",
		Usage:   "Parse and validate service offering descriptions",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"OFFERING_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   platform.LogFormatConsole,
				Usage:   "Log format (console, json)",
				EnvVars: []string{"OFFERING_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "metrics-textfile",
				Usage:   "Write prometheus metrics to this file on exit",
				EnvVars: []string{"OFFERING_METRICS_TEXTFILE"},
			},
		},

		Before: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"), c.String("log-format"))
			return nil
		},
		After: writeMetrics,

		Commands: []*cli.Command{
			parseCommand(),
			validateCommand(),
			functionCommand(),
			unitsCommand(),
		},
	}
}

// writeMetrics flushes the metrics textfile when --metrics-textfile is set.
func writeMetrics(c *cli.Context) error {
	path := c.String("metrics-textfile")
	if path == "" {
		return nil
	}
	return platform.WriteMetrics(path)
}

// commandContext attaches the global logger so library debug logs are emitted.
func commandContext(c *cli.Context) context.Context {
	return log.Logger.WithContext(c.Context)
}
