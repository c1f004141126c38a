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

// Package pgn turns Portable Game Notation documents into flat game records.
//
// Parsing is purely textual. Tag pair lines ([Name "Value"]) become snake_case
// keys, and the single move text line starting with "1." is kept verbatim under
// "moves". Moves are never validated and no board is modelled.
//
// Example:
//
//	rec := pgn.Parse("[White \"EndlessTrax\"]\n[WhiteElo \"1500\"]\n\n1. e4 e5 1-0")
//	fmt.Println(rec["white"], rec["white_elo"], rec["moves"])
//
// Split breaks a stream holding several games (a .pgn file, for instance) into
// one document per game.
package pgn
