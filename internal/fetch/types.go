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

package fetch

// ArchiveIndex is the chess.com list of monthly archive URLs, oldest first.
// A nil Archives slice means the field was missing from the response.
type ArchiveIndex struct {
	Archives []string `json:"archives"`
}

// Archive is one chess.com monthly archive.
type Archive struct {
	Games []ArchiveGame `json:"games"`
}

// ArchiveGame is a game inside a chess.com archive. Only the fields the
// importer uses or logs are decoded.
type ArchiveGame struct {
	URL       string `json:"url"`
	PGN       string `json:"pgn"`
	TimeClass string `json:"time_class"`
	Rules     string `json:"rules"`
}

// LichessGame is one object of the lichess NDJSON export requested with
// pgnInJson=true.
type LichessGame struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	Variant   string `json:"variant"`
	Speed     string `json:"speed"`
	PGN       string `json:"pgn"`
}
