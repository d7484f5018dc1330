// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"sigs.k8s.io/release-utils/version"

	"github.com/ianlewis/go-dictstore"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrDsutil is a parent error for all command errors.
var ErrDsutil = errors.New("dsutil")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = errors.Wrap(ErrDsutil, "parsing flags")

// ErrOpen indicates one or more dictionaries failed to open.
var ErrOpen = errors.Wrap(ErrDsutil, "opening dictionaries")

var copyrightNames = []string{
	"2025 Ian Lewis",
}

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we handle help ourselves.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if !c.Bool("verbose") {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "creating logger")
	}
	return l, nil
}

// openDictionaries opens the dictionaries under each data directory. Data
// directories that do not exist are skipped. Dictionaries that fail to open
// are reported on the error writer.
func openDictionaries(c *cli.Context) ([]*dictstore.Dictionary, error) {
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	opts := &dictstore.Options{Logger: logger}

	var dicts []*dictstore.Dictionary
	var errs []error
	for _, path := range c.StringSlice("data-dir") {
		if _, err := os.Stat(path); err != nil {
			logger.Debug("skipping data directory", zap.String("path", path), zap.Error(err))
			continue
		}
		openDicts, openErrs := dictstore.OpenAll(path, opts)
		dicts = append(dicts, openDicts...)
		errs = append(errs, openErrs...)
	}

	for _, err := range errs {
		fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err)
	}
	if len(errs) > 0 && len(dicts) == 0 {
		return nil, ErrOpen
	}
	return dicts, nil
}

func closeDictionaries(c *cli.Context, dicts []*dictstore.Dictionary) {
	for _, d := range dicts {
		if err := d.Close(); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err)
		}
	}
}

func printVersion(c *cli.Context) error {
	versionInfo := version.GetVersionInfo()

	out := c.App.Writer
	_, err := fmt.Fprintf(out, `%s %s
Copyright (c) %s

%s`, c.App.Name, versionInfo.GitVersion, strings.Join(copyrightNames, "\nCopyright (c) "), versionInfo.String())
	if err != nil {
		return errors.Wrap(err, "printing version")
	}
	return nil
}

func newDsutilApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Inspect and search packaged dictionaries.",
		Description: strings.Join([]string{
			"Dictionary store utility written in Go.",
			"http://github.com/ianlewis/go-dictstore",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "data-dir",
				Usage:   "include dictionaries in `DIR`",
				Aliases: []string{"d"},
				EnvVars: []string{"DICTSTORE_DATA_DIR"},
				Value:   cli.NewStringSlice(dictLocations()...),
			},
			&cli.BoolFlag{
				Name:               "verbose",
				Usage:              "print debug logs",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		Copyright:       strings.Join(copyrightNames, "\n"),
		HideHelp:        true,
		HideHelpCommand: true,
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return errors.Wrapf(ErrFlagParse, "%v", err)
		},
		Action: func(c *cli.Context) error {
			if c.Bool("version") {
				return printVersion(c)
			}

			check(cli.ShowAppHelp(c))
			return nil
		},
		Commands: []*cli.Command{
			infoCommand,
			searchCommand,
			getCommand,
			audioCommand,
		},
	}
}
