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
	"fmt"
	"strings"

	"github.com/sirseerhq/pgn-to-sqlite/internal/game"
)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// IDColumn is the definition of the auto-increment key.
	IDColumn string
	// Placeholder returns the bind parameter for the n-th (1-based) value.
	Placeholder func(n int) string
	// MaxOpenConns limits the pool. Zero means no limit.
	MaxOpenConns int
}

// SQLite is served by the pure Go modernc.org/sqlite driver. A single
// connection serializes writers on the database file.
var SQLite = Dialect{
	Name:         "SQLite",
	Driver:       "sqlite",
	IDColumn:     `"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
	Placeholder:  func(int) string { return "?" },
	MaxOpenConns: 1,
}

// Postgres is served by lib/pq.
var Postgres = Dialect{
	Name:         "PostgreSQL",
	Driver:       "postgres",
	IDColumn:     `"id" BIGSERIAL PRIMARY KEY`,
	Placeholder:  func(n int) string { return fmt.Sprintf("$%d", n) },
	MaxOpenConns: 1,
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL returns the idempotent CREATE TABLE statement for table.
func (d Dialect) CreateTableSQL(table string) string {
	fields := game.Fields()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, d.IDColumn)
	for _, f := range fields {
		cols = append(cols, fmt.Sprintf("%s %s NOT NULL DEFAULT ''", quoteIdent(f.Name), f.Type))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
}

// InsertSQL returns the parameterized INSERT of every schema column.
func (d Dialect) InsertSQL(table string) string {
	fields := game.Fields()
	names := make([]string, len(fields))
	params := make([]string, len(fields))
	for i, f := range fields {
		names[i] = quoteIdent(f.Name)
		params[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(names, ", "), strings.Join(params, ", "))
}
