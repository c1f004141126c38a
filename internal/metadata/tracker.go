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

// Package metadata tracks statistics about an import run and persists them
// as JSON. Each run records the number of games fetched and stored, the API
// calls made, and the archives or files that had to be skipped.
//
// Metadata files are named import-metadata-{unix}-{id}.json so a directory of
// them sorts by start time.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker collects statistics during an import. Create one per run.
// All methods are safe to call on a nil Tracker.
type Tracker struct {
	id        string
	startTime time.Time
	results   ImportResults
}

// New creates a tracker with a fresh import ID, started now.
func New() *Tracker {
	return &Tracker{
		id:        uuid.NewString(),
		startTime: time.Now(),
	}
}

// ID returns the import ID.
func (t *Tracker) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// IncrementAPICall records one HTTP request to a game service.
func (t *Tracker) IncrementAPICall() {
	if t != nil {
		t.results.APICallCount++
	}
}

// IncrementCacheHit records an archive served from the response cache.
func (t *Tracker) IncrementCacheHit() {
	if t != nil {
		t.results.CacheHits++
	}
}

// IncrementSkippedArchive records an archive or page that failed and was skipped.
func (t *Tracker) IncrementSkippedArchive() {
	if t != nil {
		t.results.ArchivesSkipped++
	}
}

// IncrementSkippedFile records a PGN file that could not be read.
func (t *Tracker) IncrementSkippedFile() {
	if t != nil {
		t.results.FilesSkipped++
	}
}

// RecordFetched records a raw game handed over by a source.
func (t *Tracker) RecordFetched() {
	if t != nil {
		t.results.GamesFetched++
	}
}

// RecordStored records a row written to the store.
func (t *Tracker) RecordStored() {
	if t != nil {
		t.results.GamesStored++
	}
}

// Results returns a copy of the counters collected so far.
func (t *Tracker) Results() ImportResults {
	if t == nil {
		return ImportResults{}
	}
	return t.results
}

// GenerateMetadata creates the ImportMetadata for the run. runErr is the
// error the import ended with, if any.
func (t *Tracker) GenerateMetadata(version string, params ImportParams, runErr error) *ImportMetadata {
	completedAt := time.Now()

	results := t.results
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).Round(time.Millisecond).String()

	meta := &ImportMetadata{
		Version:    version,
		ImportID:   t.id,
		Parameters: params,
		Results:    results,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

// Fields renders the metadata as zap fields for the import summary log line.
func (m *ImportMetadata) Fields() []zap.Field {
	return []zap.Field{
		zap.String("import_id", m.ImportID),
		zap.String("source", m.Parameters.Source),
		zap.Int("games_fetched", m.Results.GamesFetched),
		zap.Int("games_stored", m.Results.GamesStored),
		zap.Int("archives_skipped", m.Results.ArchivesSkipped),
		zap.Int("files_skipped", m.Results.FilesSkipped),
		zap.Int("api_calls", m.Results.APICallCount),
		zap.Int("cache_hits", m.Results.CacheHits),
		zap.String("duration", m.Results.Duration),
	}
}

// SaveMetadata writes meta to dir atomically using a temporary file and a
// rename, and returns the final path.
func SaveMetadata(meta *ImportMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	id := meta.ImportID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("import-metadata-%d-%s.json", meta.Results.StartedAt.Unix(), id)
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(meta); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadMetadata reads a metadata file written by SaveMetadata.
func LoadMetadata(path string) (*ImportMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	var meta ImportMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &meta, nil
}
