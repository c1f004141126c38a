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

package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/game"
)

// Store defines the interface for persisting game records.
type Store interface {
	// Write persists one record. Only schema columns are stored.
	Write(ctx context.Context, rec game.Record) error

	// Count returns the number of records written through this Store.
	Count() int

	// Close releases the underlying connection or file.
	Close() error
}

// Kind identifies a storage backend.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindNDJSON   Kind = "ndjson"
)

// Stdout is the output value that selects NDJSON on standard output.
const Stdout = "-"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// KindOf returns the backend that Open uses for output.
func KindOf(output string) Kind {
	lower := strings.ToLower(output)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case output == Stdout, strings.HasSuffix(lower, ".ndjson"), strings.HasSuffix(lower, ".jsonl"):
		return KindNDJSON
	default:
		return KindSQLite
	}
}

// Describe renders output for logs with any password removed.
func Describe(output string) string {
	if KindOf(output) != KindPostgres {
		return output
	}
	u, err := url.Parse(output)
	if err != nil {
		return "postgres://<invalid>"
	}
	return u.Redacted()
}

// Open creates the Store for output, creating the games table when it does
// not exist yet.
func Open(ctx context.Context, output, table string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("no output given. Use --output to choose a database file: %w", pgnerrors.ErrStorage)
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q: %w", table, pgnerrors.ErrStorage)
	}

	kind := KindOf(output)
	logger.Debug("opening store",
		zap.String("kind", string(kind)),
		zap.String("output", Describe(output)),
		zap.String("table", table))

	switch kind {
	case KindPostgres:
		return OpenSQL(ctx, Postgres, output, table)
	case KindNDJSON:
		if output == Stdout {
			return NewWriter(os.Stdout), nil
		}
		return NewFileWriter(output)
	default:
		return OpenSQL(ctx, SQLite, output, table)
	}
}
