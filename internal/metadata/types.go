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

// Package metadata types define the structures written after each import.
package metadata

import (
	"time"
)

// ImportMetadata is the record of a single import run. It captures what was
// imported, where it went, and how the run went.
type ImportMetadata struct {
	Version    string        `json:"version"`
	ImportID   string        `json:"import_id"`
	Parameters ImportParams  `json:"parameters"`
	Results    ImportResults `json:"results"`
	Error      string        `json:"error,omitempty"`
}

// ImportParams captures the inputs of an import. Site and User are set for
// remote imports, Directory for folder imports.
type ImportParams struct {
	Source    string `json:"source"`
	Site      string `json:"site,omitempty"`
	User      string `json:"user,omitempty"`
	Directory string `json:"directory,omitempty"`
	Output    string `json:"output"`
	Table     string `json:"table"`
	PageSize  int    `json:"page_size,omitempty"`
}

// ImportResults holds the counters gathered by a Tracker.
type ImportResults struct {
	GamesFetched    int       `json:"games_fetched"`
	GamesStored     int       `json:"games_stored"`
	ArchivesSkipped int       `json:"archives_skipped"`
	FilesSkipped    int       `json:"files_skipped"`
	APICallCount    int       `json:"api_calls_made"`
	CacheHits       int       `json:"cache_hits"`
	Duration        string    `json:"import_duration"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}
