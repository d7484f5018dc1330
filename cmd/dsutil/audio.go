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
	"os"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/ianlewis/go-dictstore"
)

var audioCommand = &cli.Command{
	Name:      "audio",
	Usage:     "extract an audio clip by name",
	ArgsUsage: "NAME",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Usage:    "write the clip to `FILE`",
			Aliases:  []string{"o"},
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 1 {
			return errUsage(c, "expected one clip name")
		}
		name := c.Args().First()

		dicts, err := openDictionaries(c)
		if err != nil {
			return err
		}
		defer closeDictionaries(c, dicts)

		for _, d := range dicts {
			a := d.Audio()
			if a == nil {
				continue
			}
			b, err := a.Get(name)
			if errors.Is(err, dictstore.ErrNotFound) {
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "reading %s", d.Name())
			}
			if err := os.WriteFile(c.String("output"), b, 0o600); err != nil {
				return errors.Wrap(err, "writing clip")
			}
			return nil
		}
		return errors.Wrapf(dictstore.ErrNotFound, "audio %q", name)
	},
}
