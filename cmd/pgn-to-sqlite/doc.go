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

// Package main implements the pgn-to-sqlite command-line interface.
// This tool downloads a player's games from chess.com or lichess.org, or
// reads a folder of PGN files, and stores one row per game in a SQLite
// database.
//
// The CLI supports:
//   - Downloading every game of a chess.com or lichess.org player
//   - Importing every .pgn file in a folder
//   - SQLite files, PostgreSQL URLs, or NDJSON as the output
//   - Configuration from a YAML file, a .env file, and the environment
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	pgn-to-sqlite fetch <chess|lichess> --user <name> --output <db> [flags]
//	pgn-to-sqlite folder <dir> --output <db> [flags]
//
// Example:
//
//	pgn-to-sqlite fetch chess --user EndlessTrax --output games.db
//
// Exit codes:
//   - 0: Success
//   - 1: General error (invalid site, usage, configuration, storage)
//   - 2: The game service refused the request (unknown player, rate limit, other status)
//   - 3: Network error
//   - 4: Malformed response
package main
