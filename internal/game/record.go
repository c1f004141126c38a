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

// Package game defines the normalized game record and the single column schema
// shared by the parser, table creation, and inserts.
package game

// FieldType is the SQL affinity of a schema column.
type FieldType string

// TypeText is the only column type in use; values are never converted.
const TypeText FieldType = "TEXT"

// Field is one column of the games table.
type Field struct {
	Name string
	Type FieldType
}

// schema is the canonical ordered column list. It is the union of the tags
// chess.com and lichess emit, so service specific columns stay empty for the
// other service.
var schema = []Field{
	{Name: "event", Type: TypeText},
	{Name: "site", Type: TypeText},
	{Name: "date", Type: TypeText},
	{Name: "round", Type: TypeText},
	{Name: "white", Type: TypeText},
	{Name: "black", Type: TypeText},
	{Name: "result", Type: TypeText},
	{Name: "eco", Type: TypeText},
	{Name: "utc_date", Type: TypeText},
	{Name: "utc_time", Type: TypeText},
	{Name: "white_elo", Type: TypeText},
	{Name: "black_elo", Type: TypeText},
	{Name: "variant", Type: TypeText},
	{Name: "time_control", Type: TypeText},
	{Name: "termination", Type: TypeText},
	{Name: "opening", Type: TypeText},
	{Name: MovesKey, Type: TypeText},
}

// MovesKey holds the verbatim move text line.
const MovesKey = "moves"

// Fields returns a copy of the schema columns in order.
func Fields() []Field {
	return append([]Field(nil), schema...)
}

// FieldNames returns the schema column names in order.
func FieldNames() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// Record maps snake_case tag names to their raw string values.
type Record map[string]string

// Normalize adds every schema field missing from r with an empty value.
func (r Record) Normalize() Record {
	for _, f := range schema {
		if _, ok := r[f.Name]; !ok {
			r[f.Name] = ""
		}
	}
	return r
}

// Values returns the record's values in schema order, ready to bind to an insert.
func (r Record) Values() []any {
	vals := make([]any, len(schema))
	for i, f := range schema {
		vals[i] = r[f.Name]
	}
	return vals
}

// Columns returns the schema subset of r, which is what gets persisted.
func (r Record) Columns() map[string]string {
	out := make(map[string]string, len(schema))
	for _, f := range schema {
		out[f.Name] = r[f.Name]
	}
	return out
}
