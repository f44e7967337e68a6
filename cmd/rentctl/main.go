// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

// Command rentctl manages model artifacts offline.
//
//	rentctl bundle --encoder encoder.json --trees trees.json --priors priors.json --dir artifacts --write-schema
//	rentctl predict --dir artifacts listing.json
//	rentctl inspect --dir artifacts --format yaml
//	rentctl modelcard --dir artifacts --out docs/model_card.pdf
//	rentctl modelcard --dir artifacts --format md
//
// Logs go to stderr so command output can be piped.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tomtom215/rentpredict/internal/artifacts"
	"github.com/tomtom215/rentpredict/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "rentctl:", err)
		stop()
		os.Exit(1)
	}
}

// dirFlag is built per command; urfave/cli flags keep parse state.
func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "artifact directory",
		Value:   "artifacts",
		EnvVars: []string{"ARTIFACTS_DIR"},
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "rentctl",
		Usage:     "build, inspect and exercise rent prediction artifacts",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "trace, debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			lc := logging.DefaultConfig()
			lc.Level = c.String("log-level")
			lc.Format = "console"
			lc.Output = c.App.ErrWriter
			logging.Init(lc)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "bundle",
				Usage: "import training exports as versioned artifacts",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.StringFlag{Name: "encoder", Usage: "encoder export JSON", Required: true},
					&cli.StringFlag{Name: "trees", Usage: "XGBoost JSON tree dump", Required: true},
					&cli.StringFlag{Name: "priors", Usage: "priors JSON", Required: true},
					&cli.StringFlag{Name: "meta", Usage: "model_meta.json to copy next to the artifacts"},
					&cli.IntFlag{Name: "version", Usage: "version to save as (0 for the next free version)"},
					&cli.StringFlag{Name: "description", Usage: "free-form artifact description"},
					&cli.BoolFlag{Name: "write-schema", Usage: "write features.json derived from the encoder"},
					&cli.IntFlag{Name: "keep", Usage: "prune older versions, keeping this many (0 keeps all)"},
				},
				Action: bundleAction,
			},
			{
				Name:      "predict",
				Usage:     "predict the rent of a listing read from a JSON file or stdin",
				ArgsUsage: "[listing.json]",
				Flags:     []cli.Flag{dirFlag(), &cli.BoolFlag{Name: "explain", Usage: "also print the resolved priors"}},
				Action:    predictAction,
			},
			{
				Name:  "inspect",
				Usage: "list stored artifact versions and model metadata",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "table", Usage: "table or yaml"},
				},
				Action: inspectAction,
			},
			{
				Name:  "modelcard",
				Usage: "render the model card as PDF or Markdown",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "pdf", Usage: "pdf or md"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
				},
				Action: modelcardAction,
			},
		},
	}
}

// bundleConfig returns the default artifact names under the --dir flag.
func bundleConfig(c *cli.Context) artifacts.BundleConfig {
	return artifacts.DefaultBundleConfig(c.String("dir"))
}
