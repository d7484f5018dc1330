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

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-dictstore"
	"github.com/ianlewis/go-dictstore/key"
)

func errUsage(c *cli.Context, msg string) error {
	return errors.Wrapf(ErrFlagParse, "%s: %s", c.Command.Name, msg)
}

func printEntries(c *cli.Context, d *dictstore.Dictionary, entries []*dictstore.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(c.App.Writer, "== %s\n", d.Name()); err != nil {
		return errors.Wrap(err, "writing output")
	}
	for _, e := range entries {
		if _, err := fmt.Fprintln(c.App.Writer, e); err != nil {
			return errors.Wrap(err, "writing output")
		}
	}
	return nil
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search dictionaries for a key",
	ArgsUsage: "QUERY",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return errUsage(c, "expected one query")
		}
		query := c.Args().First()

		dicts, err := openDictionaries(c)
		if err != nil {
			return err
		}
		defer closeDictionaries(c, dicts)

		for _, d := range dicts {
			entries, err := d.Search(query)
			if err != nil {
				return errors.Wrapf(err, "searching %s", d.Name())
			}
			if err := printEntries(c, d, entries); err != nil {
				return err
			}
		}
		return nil
	},
}

var getCommand = &cli.Command{
	Name:      "get",
	Usage:     "print the entry with a page id",
	ArgsUsage: "PAGE[-ITEM]",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return errUsage(c, "expected one page id")
		}
		p, err := key.ParsePage(c.Args().First())
		if err != nil {
			return errUsage(c, err.Error())
		}

		dicts, err := openDictionaries(c)
		if err != nil {
			return err
		}
		defer closeDictionaries(c, dicts)

		found := false
		for _, d := range dicts {
			e, err := d.Entry(p)
			if errors.Is(err, dictstore.ErrNotFound) {
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "reading %s", d.Name())
			}
			found = true
			if err := printEntries(c, d, []*dictstore.Entry{e}); err != nil {
				return err
			}
		}
		if !found {
			return errors.Wrapf(dictstore.ErrNotFound, "entry %s", p)
		}
		return nil
	},
}
