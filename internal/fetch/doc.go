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

// Package fetch downloads raw PGN game records for a player from chess.com
// or lichess.org. Each service is a Source that streams one PGN document at
// a time to a GameHandler, so an import never holds a whole game history in
// memory.
//
// The package includes:
//   - A Source interface and NewSource, which maps a site selector to a Source
//   - ChessComSource, which walks the player's monthly archives
//   - LichessSource, which reads the NDJSON user export, optionally in pages
//   - MockSource for testing
//
// Requests are never retried. A failure of the first request of an import
// aborts it with a sentinel from internal/errors; a failure of a later
// archive or page is logged and skipped.
//
// Basic usage:
//
//	src, err := fetch.NewSource("chess", cfg, fetch.Options{Logger: logger})
//	if err != nil {
//	    // Handle error
//	}
//	err = src.FetchGames(ctx, "EndlessTrax", func(pgn string) error {
//	    // Parse and store the game
//	    return nil
//	})
package fetch
