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

package dictstore

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ianlewis/go-dictstore/headline"
	"github.com/ianlewis/go-dictstore/key"
	"github.com/ianlewis/go-dictstore/markup"
	"github.com/ianlewis/go-dictstore/nrsc"
	"github.com/ianlewis/go-dictstore/rsc"
)

const (
	headlineDir = "headline"
	keyDir      = "key"
	contentsDir = "contents"
	audioDir    = "audio"

	headlineExt = ".headlinestore"
	keyExt      = ".keystore"

	// contentsName is the name of the resource store in the contents
	// directory.
	contentsName = "contents"
)

// Options are options for opening a Dictionary.
type Options struct {
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger

	// Key are the options for the key stores.
	Key *key.Options

	// Markup transforms entry contents. Defaults to [markup.PlainText].
	Markup markup.Transformer
}

// DefaultOptions is the default options for a Dictionary.
var DefaultOptions = &Options{
	Key:    key.DefaultOptions,
	Markup: markup.PlainText,
}

// NamedHeadlines is a headline store and its name.
type NamedHeadlines struct {
	Name string
	*headline.Store
}

// NamedKeys is a key store and its name.
type NamedKeys struct {
	Name string
	*key.Store
}

// Dictionary is a packaged dictionary. A Dictionary is not safe for
// concurrent use. It must be closed with Close.
type Dictionary struct {
	path string

	headlines []NamedHeadlines
	keys      []NamedKeys
	contents  *rsc.Store
	audio     *nrsc.Store

	markup markup.Transformer
	logger *zap.Logger
}

// IsDictionary reports whether path looks like a dictionary directory.
func IsDictionary(path string) bool {
	for _, dir := range []string{contentsDir, keyDir} {
		if info, err := os.Stat(filepath.Join(path, dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// OpenAll opens all dictionaries under a directory. This function will return
// all successfully opened dictionaries along with any errors that occurred.
func OpenAll(path string, options *Options) ([]*Dictionary, []error) {
	var dicts []*Dictionary
	var errs []error
	if err := filepath.WalkDir(path, func(path string, info fs.DirEntry, err error) error {
		// Walking the file path will ignore errors.
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if !info.IsDir() || !IsDictionary(path) {
			return nil
		}
		d, err := Open(path, options)
		if err != nil {
			errs = append(errs, err)
		} else {
			dicts = append(dicts, d)
		}
		// Stores inside a dictionary are not dictionaries themselves.
		return filepath.SkipDir
	}); err != nil {
		errs = append(errs, err)
		return nil, errs
	}
	return dicts, errs
}

// Open opens the dictionary in the directory at path. Stores that are not
// present are skipped; a store that is present but fails to open fails the
// whole dictionary.
func Open(path string, options *Options) (*Dictionary, error) {
	if options == nil {
		options = DefaultOptions
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Dictionary{
		path:   path,
		markup: options.Markup,
		logger: logger,
	}
	if d.markup == nil {
		d.markup = markup.PlainText
	}

	if err := d.open(options); err != nil {
		_ = d.Close()
		return nil, errors.Wrapf(err, "opening dictionary %q", path)
	}

	logger.Debug("opened dictionary",
		zap.String("path", path),
		zap.Int("headline stores", len(d.headlines)),
		zap.Int("key stores", len(d.keys)),
		zap.Bool("contents", d.contents != nil),
		zap.Bool("audio", d.audio != nil),
	)
	return d, nil
}

func (d *Dictionary) open(options *Options) error {
	headlinePaths, err := storeFiles(filepath.Join(d.path, headlineDir), headlineExt)
	if err != nil {
		return err
	}
	for _, p := range headlinePaths {
		s, err := headline.Open(p)
		if err != nil {
			return err
		}
		d.headlines = append(d.headlines, NamedHeadlines{Name: storeName(p, headlineExt), Store: s})
	}

	keyPaths, err := storeFiles(filepath.Join(d.path, keyDir), keyExt)
	if err != nil {
		return err
	}
	for _, p := range keyPaths {
		s, err := key.Open(p, options.Key)
		if err != nil {
			return err
		}
		d.keys = append(d.keys, NamedKeys{Name: storeName(p, keyExt), Store: s})
	}

	dir := filepath.Join(d.path, contentsDir)
	if exists(filepath.Join(dir, contentsName+".map")) {
		d.contents, err = rsc.Open(dir, contentsName, &rsc.Options{Logger: d.logger})
		if err != nil {
			return err
		}
	}

	dir = filepath.Join(d.path, audioDir)
	if exists(filepath.Join(dir, nrsc.IndexFile)) {
		d.audio, err = nrsc.Open(dir, &nrsc.Options{Logger: d.logger})
		if err != nil {
			return err
		}
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// storeFiles returns the sorted paths of the files in dir with extension
// ext. A missing dir has no files.
func storeFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", dir)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func storeName(path, ext string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(ext)]
}

// Path returns the dictionary directory.
func (d *Dictionary) Path() string {
	return d.path
}

// Name returns the dictionary name, which is the name of its directory.
func (d *Dictionary) Name() string {
	return filepath.Base(d.path)
}

// Headlines returns the headline stores in name order.
func (d *Dictionary) Headlines() []NamedHeadlines {
	return d.headlines
}

// Keys returns the key stores in name order.
func (d *Dictionary) Keys() []NamedKeys {
	return d.keys
}

// Headline returns the headline store called name or nil.
func (d *Dictionary) Headline(name string) *headline.Store {
	for _, h := range d.headlines {
		if h.Name == name {
			return h.Store
		}
	}
	return nil
}

// Key returns the key store called name or nil.
func (d *Dictionary) Key(name string) *key.Store {
	for _, k := range d.keys {
		if k.Name == name {
			return k.Store
		}
	}
	return nil
}

// Contents returns the contents store or nil if the dictionary has none.
func (d *Dictionary) Contents() *rsc.Store {
	return d.contents
}

// Audio returns the audio store or nil if the dictionary has none.
func (d *Dictionary) Audio() *nrsc.Store {
	return d.audio
}

// Entry returns the entry at page p. The headline is taken from the first
// headline store that has p and the data from the contents store. It
// returns [ErrNotFound] if neither has p.
func (d *Dictionary) Entry(p key.Page) (*Entry, error) {
	e := &Entry{
		Page:   p,
		markup: d.markup,
	}

	for _, h := range d.headlines {
		text, err := h.Get(p.Page, p.Item)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "headline %s", p)
		}
		e.Headline = text
		break
	}

	if d.contents != nil {
		data, err := d.contents.Get(p.Page)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return nil, errors.Wrapf(err, "contents %s", p)
		default:
			e.Data = data
		}
	}

	if e.Headline == "" && e.Data == nil {
		return nil, errors.Wrapf(ErrNotFound, "entry %s", p)
	}
	return e, nil
}

// Search looks up query in every key store and returns the entries of the
// matching pages, in key store order without duplicates. Every stored copy
// of a key contributes its pages. A page that is referenced by a key but
// has neither headline nor contents is skipped.
func (d *Dictionary) Search(query string) ([]*Entry, error) {
	var pages []key.Page
	seen := map[key.Page]bool{}
	for _, k := range d.keys {
		lists, err := k.SearchAll(query)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "key store %q", k.Name)
		}
		// A key stored more than once has its page lists merged.
		for _, it := range lists {
			for it.Scan() {
				p := it.Page()
				if seen[p] {
					d.logger.Debug("duplicate page",
						zap.String("key store", k.Name),
						zap.String("query", query),
						zap.Stringer("page", p),
					)
					continue
				}
				seen[p] = true
				pages = append(pages, p)
			}
			if err := it.Err(); err != nil {
				return nil, errors.Wrapf(err, "key store %q: %q", k.Name, query)
			}
		}
	}

	var entries []*Entry
	for _, p := range pages {
		e, err := d.Entry(p)
		if errors.Is(err, ErrNotFound) {
			d.logger.Debug("dangling page reference", zap.Stringer("page", p), zap.String("query", query))
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the dictionary's resource stores.
func (d *Dictionary) Close() error {
	var err error
	if d.contents != nil {
		err = errors.CombineErrors(err, d.contents.Close())
		d.contents = nil
	}
	if d.audio != nil {
		err = errors.CombineErrors(err, d.audio.Close())
		d.audio = nil
	}
	return err
}
