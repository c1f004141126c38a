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

package testutil

import (
	"fmt"
	"strings"
)

// PGNBuilder provides a fluent API for creating test PGN documents
type PGNBuilder struct {
	tags  [][2]string
	moves string
}

// NewPGNBuilder creates a new PGN builder with the seven tag roster filled in
func NewPGNBuilder() *PGNBuilder {
	return &PGNBuilder{
		tags: [][2]string{
			{"Event", "Live Chess"},
			{"Site", "Chess.com"},
			{"Date", "2021.01.05"},
			{"Round", "-"},
			{"White", "alice"},
			{"Black", "bob"},
			{"Result", "1-0"},
		},
		moves: "1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0",
	}
}

// WithTag sets a tag, replacing an existing one of the same name
func (b *PGNBuilder) WithTag(name, value string) *PGNBuilder {
	for i := range b.tags {
		if b.tags[i][0] == name {
			b.tags[i][1] = value
			return b
		}
	}
	b.tags = append(b.tags, [2]string{name, value})
	return b
}

// WithPlayers sets the White and Black tags
func (b *PGNBuilder) WithPlayers(white, black string) *PGNBuilder {
	return b.WithTag("White", white).WithTag("Black", black)
}

// WithMoves sets the move text line
func (b *PGNBuilder) WithMoves(moves string) *PGNBuilder {
	b.moves = moves
	return b
}

// Build renders the document with a blank line between tags and moves
func (b *PGNBuilder) Build() string {
	var sb strings.Builder
	for _, tag := range b.tags {
		fmt.Fprintf(&sb, "[%s %q]\n", tag[0], tag[1])
	}
	sb.WriteString("\n")
	sb.WriteString(b.moves)
	sb.WriteString("\n")
	return sb.String()
}

// NumberedGames returns n distinct games whose Event tag is "Game 1" .. "Game n"
func NumberedGames(n int) []string {
	games := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		games = append(games, NewPGNBuilder().WithTag("Event", fmt.Sprintf("Game %d", i)).Build())
	}
	return games
}
