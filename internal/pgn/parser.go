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

package pgn

import (
	"regexp"
	"strings"

	"github.com/sirseerhq/pgn-to-sqlite/internal/game"
)

var (
	camelBoundary = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	quotedValue   = regexp.MustCompile(`"(.+?)"`)
)

const byteOrderMark = "\ufeff"

// ToSnakeCase converts a tag name such as WhiteElo or UTCDate to white_elo or utc_date.
func ToSnakeCase(name string) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(name, "${1}_${2}"))
}

// Parse converts one PGN document into a normalized record. It never fails:
// a tag line without a quoted value yields an empty value, and lines that are
// neither tag pairs nor move text are ignored.
func Parse(doc string) game.Record {
	rec := make(game.Record)

	doc = strings.TrimPrefix(doc, byteOrderMark)
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimRight(line, "\r")

		switch {
		case strings.HasPrefix(line, "["):
			key, value, ok := parseTagLine(line)
			if ok {
				rec[key] = value
			}
		case strings.HasPrefix(line, "1."):
			rec[game.MovesKey] = line
		}
	}

	return rec.Normalize()
}

// parseTagLine extracts the snake_case key and quoted value from a tag line.
func parseTagLine(line string) (key, value string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	// Also drop the closing bracket of a valueless tag such as [Annotator].
	name := strings.TrimRight(strings.TrimLeft(fields[0], "["), "]")
	if name == "" {
		return "", "", false
	}

	if m := quotedValue.FindStringSubmatch(line); m != nil {
		value = m[1]
	}
	return ToSnakeCase(name), value, true
}
