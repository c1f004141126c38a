// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package importer connects the game sources, the PGN parser and a store.
// Games are processed one at a time in the order the source produces them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/fetch"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
	"github.com/sirseerhq/pgn-to-sqlite/internal/pgn"
	"github.com/sirseerhq/pgn-to-sqlite/internal/store"
)

// progressEvery is how often, in stored games, progress is logged at info.
const progressEvery = 100

// Importer parses raw PGN documents and writes them to a store.
type Importer struct {
	store   store.Store
	logger  *zap.Logger
	tracker *metadata.Tracker
}

// New creates an Importer. logger and tracker may be nil.
func New(s store.Store, logger *zap.Logger, tracker *metadata.Tracker) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: s, logger: logger, tracker: tracker}
}

// ImportSource stores every game src produces for user.
func (im *Importer) ImportSource(ctx context.Context, src fetch.Source, user string) error {
	im.logger.Info("importing games", zap.String("service", src.Name()), zap.String("user", user))

	return src.FetchGames(ctx, user, func(doc string) error {
		return im.importGame(ctx, doc)
	})
}

// ImportFolder stores the games of every .pgn file directly inside dir.
// A file that cannot be read is logged and skipped; a storage failure aborts.
func (im *Importer) ImportFolder(ctx context.Context, dir string) error {
	files, err := ListPGNFiles(dir)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		im.logger.Warn("no .pgn files found", zap.String("dir", dir))
		return nil
	}
	im.logger.Info("importing folder", zap.String("dir", dir), zap.Int("files", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := im.importFile(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// storeError marks a failure of the store so it can be told apart from read
// errors of the file being split.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func (im *Importer) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		im.logger.Warn("skipping unreadable file", zap.String("file", path), zap.Error(err))
		im.tracker.IncrementSkippedFile()
		return nil
	}
	defer f.Close()

	games := 0
	err = pgn.Split(f, func(doc string) error {
		if err := im.importGame(ctx, doc); err != nil {
			return &storeError{err: err}
		}
		games++
		return nil
	})
	if err != nil {
		var serr *storeError
		if errors.As(err, &serr) {
			return serr.err
		}
		im.logger.Warn("skipping rest of unreadable file",
			zap.String("file", path),
			zap.Int("games_stored", games),
			zap.Error(err))
		im.tracker.IncrementSkippedFile()
		return nil
	}

	im.logger.Debug("imported file", zap.String("file", path), zap.Int("games", games))
	return nil
}

func (im *Importer) importGame(ctx context.Context, doc string) error {
	im.tracker.RecordFetched()

	rec := pgn.Parse(doc)
	if err := im.store.Write(ctx, rec); err != nil {
		return err
	}
	im.tracker.RecordStored()

	if n := im.store.Count(); n%progressEvery == 0 {
		im.logger.Info("progress", zap.Int("games_stored", n))
	}
	im.logger.Debug("stored game",
		zap.String("white", rec["white"]),
		zap.String("black", rec["black"]),
		zap.String("date", rec["date"]))
	return nil
}

// ListPGNFiles returns the regular files directly inside dir whose extension
// is .pgn in any case, sorted by name.
func ListPGNFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pgn") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
