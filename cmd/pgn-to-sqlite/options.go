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

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	"github.com/sirseerhq/pgn-to-sqlite/internal/importer"
	"github.com/sirseerhq/pgn-to-sqlite/internal/logging"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
	"github.com/sirseerhq/pgn-to-sqlite/internal/store"
	"github.com/sirseerhq/pgn-to-sqlite/pkg/version"
)

// importOptions holds the flags shared by every import command.
type importOptions struct {
	output      string
	configFile  string
	table       string
	metadataDir string
	logLevel    string
	logFormat   string
}

func (o *importOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Where to save games: a SQLite file, a postgres:// URL, a .ndjson file, or - for stdout")
	f.StringVar(&o.configFile, "config", "", "Path to configuration file")
	f.StringVar(&o.table, "table", "", `Table to store games in (default "game")`)
	f.StringVar(&o.metadataDir, "metadata-dir", "", "Directory for import summary files")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: console or json")

	_ = cmd.MarkFlagRequired("output")
}

// loadConfig reads the configuration and applies the flags that were set.
func (o *importOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("table") {
		cfg.Storage.Table = o.table
	}
	if flags.Changed("metadata-dir") {
		cfg.Metadata.Dir = o.metadataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}

	return cfg, nil
}

// importFunc performs the actual work of an import command.
type importFunc func(ctx context.Context, im *importer.Importer, logger *zap.Logger, tracker *metadata.Tracker) error

// runImport opens the store, runs fn, and records the outcome. The store is
// opened before anything is fetched so the table exists even for a player
// without games.
func runImport(ctx context.Context, cfg *config.Config, stderr io.Writer, params metadata.ImportParams, fn importFunc) error {
	logger := logging.NewWithWriter(cfg.Log, stderr)
	defer func() { _ = logger.Sync() }()

	s, err := store.Open(ctx, params.Output, cfg.Storage.Table, logger)
	if err != nil {
		return err
	}

	tracker := metadata.New()
	logger = logger.With(zap.String("import_id", tracker.ID()))

	runErr := fn(ctx, importer.New(s, logger, tracker), logger, tracker)
	if closeErr := s.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}

	params.Table = cfg.Storage.Table
	params.Output = store.Describe(params.Output)
	meta := tracker.GenerateMetadata(version.Version, params, runErr)

	if runErr != nil {
		logger.Error("import failed", append(meta.Fields(), zap.Error(runErr))...)
	} else {
		logger.Info("import finished", meta.Fields()...)
	}

	if cfg.Metadata.Dir != "" {
		path, err := metadata.SaveMetadata(meta, cfg.Metadata.Dir)
		if err != nil {
			logger.Warn("could not save import metadata", zap.Error(err))
		} else {
			logger.Debug("saved import metadata", zap.String("path", path))
		}
	}

	if runErr == nil {
		fmt.Fprintf(stderr, "Stored %d games in %s\n", meta.Results.GamesStored, params.Output)
	}
	return runErr
}
