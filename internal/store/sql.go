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
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/game"
)

// SQLStore writes records to a relational table.
type SQLStore struct {
	mu      sync.Mutex
	db      *sql.DB
	insert  *sql.Stmt
	dialect Dialect
	table   string
	count   int
}

// OpenSQL connects to dsn, creates table if needed, and prepares the insert.
func OpenSQL(ctx context.Context, d Dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w: %w", d.Name, pgnerrors.ErrStorage, err)
	}
	if d.MaxOpenConns > 0 {
		db.SetMaxOpenConns(d.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w: %w", d.Name, pgnerrors.ErrStorage, err)
	}

	if _, err := db.ExecContext(ctx, d.CreateTableSQL(table)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %q: %w: %w", table, pgnerrors.ErrStorage, err)
	}

	insert, err := db.PrepareContext(ctx, d.InsertSQL(table))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare insert into %q: %w: %w", table, pgnerrors.ErrStorage, err)
	}

	return &SQLStore{
		db:      db,
		insert:  insert,
		dialect: d,
		table:   table,
	}, nil
}

// Write inserts rec as one row.
func (s *SQLStore) Write(ctx context.Context, rec game.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.insert.ExecContext(ctx, rec.Values()...); err != nil {
		return fmt.Errorf("failed to insert game into %q: %w: %w", s.table, pgnerrors.ErrStorage, err)
	}
	s.count++
	return nil
}

// Count returns the number of rows inserted through this store.
func (s *SQLStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// DB exposes the connection for inspection.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the prepared statement and the connection.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stmtErr := s.insert.Close()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w: %w", s.dialect.Name, pgnerrors.ErrStorage, err)
	}
	if stmtErr != nil {
		return fmt.Errorf("failed to close insert statement: %w: %w", pgnerrors.ErrStorage, stmtErr)
	}
	return nil
}
