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
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var infoCommand = &cli.Command{
	Name:  "info",
	Usage: "list dictionaries and their stores",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 0 {
			return errUsage(c, "unexpected arguments")
		}

		dicts, err := openDictionaries(c)
		if err != nil {
			return err
		}
		defer closeDictionaries(c, dicts)

		tbl := table.New("Dictionary", "Store", "Name", "Records").WithWriter(c.App.Writer)
		for _, d := range dicts {
			for _, h := range d.Headlines() {
				tbl.AddRow(d.Name(), "headline", h.Name, h.Len())
			}
			for _, k := range d.Keys() {
				tbl.AddRow(d.Name(), "key", k.Name, k.Len())
			}
			if s := d.Contents(); s != nil {
				tbl.AddRow(d.Name(), "contents", s.Name(), s.Len())
			}
			if s := d.Audio(); s != nil {
				tbl.AddRow(d.Name(), "audio", "audio", s.Len())
			}
		}
		tbl.Print()
		return nil
	},
}
