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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single line; long games with clock comments can
// produce move text lines of several hundred kilobytes.
const maxLineBytes = 8 * 1024 * 1024

// Split reads a PGN stream and calls fn once per game document. A new
// document begins at a tag line that follows move text. Lines before the
// first tag that are not move text, such as % or ; comments, do not end a
// document. A leading byte order mark is dropped. Blank-only documents are
// never emitted.
func Split(r io.Reader, fn func(doc string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		current []string
		seenTag bool
		inBody  bool
		first   = true
	)

	flush := func() error {
		doc := strings.TrimSpace(strings.Join(current, "\n"))
		current = current[:0]
		seenTag, inBody = false, false
		if doc == "" {
			return nil
		}
		return fn(doc)
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, byteOrderMark)
			first = false
		}
		trimmed := strings.TrimSpace(line)

		isTag := strings.HasPrefix(line, "[")
		if isTag && inBody {
			if err := flush(); err != nil {
				return err
			}
		}
		switch {
		case isTag:
			seenTag = true
		case trimmed == "":
		case seenTag || isMoveText(trimmed):
			inBody = true
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read PGN stream: %w", err)
	}

	return flush()
}

// isMoveText reports whether line opens with a move number such as "1." or "12...".
func isMoveText(line string) bool {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	return digits > 0 && digits < len(line) && line[digits] == '.'
}
