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

package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTracker_Counters(t *testing.T) {
	tracker := New()

	for i := 0; i < 3; i++ {
		tracker.IncrementAPICall()
		tracker.RecordFetched()
	}
	tracker.RecordStored()
	tracker.RecordStored()
	tracker.IncrementSkippedArchive()
	tracker.IncrementSkippedFile()
	tracker.IncrementCacheHit()

	got := tracker.Results()
	want := ImportResults{
		GamesFetched:    3,
		GamesStored:     2,
		ArchivesSkipped: 1,
		FilesSkipped:    1,
		APICallCount:    3,
		CacheHits:       1,
	}
	if got != want {
		t.Errorf("Results() = %+v, want %+v", got, want)
	}
}

func TestTracker_NilIsNoop(t *testing.T) {
	var tracker *Tracker

	tracker.IncrementAPICall()
	tracker.IncrementCacheHit()
	tracker.IncrementSkippedArchive()
	tracker.IncrementSkippedFile()
	tracker.RecordFetched()
	tracker.RecordStored()

	if tracker.ID() != "" {
		t.Errorf("ID() = %q, want empty", tracker.ID())
	}
	if got := tracker.Results(); got != (ImportResults{}) {
		t.Errorf("Results() = %+v, want zero", got)
	}
}

func TestTracker_GenerateMetadata(t *testing.T) {
	tracker := New()
	tracker.RecordFetched()
	tracker.RecordStored()

	params := ImportParams{
		Source: "chess.com",
		Site:   "chess",
		User:   "EndlessTrax",
		Output: "games.db",
		Table:  "game",
	}

	meta := tracker.GenerateMetadata("1.0.0", params, nil)

	if _, err := uuid.Parse(meta.ImportID); err != nil {
		t.Errorf("ImportID %q is not a UUID: %v", meta.ImportID, err)
	}
	if meta.ImportID != tracker.ID() {
		t.Errorf("ImportID = %q, want tracker ID %q", meta.ImportID, tracker.ID())
	}
	if meta.Version != "1.0.0" {
		t.Errorf("Version = %q", meta.Version)
	}
	if meta.Parameters != params {
		t.Errorf("Parameters = %+v, want %+v", meta.Parameters, params)
	}
	if meta.Results.GamesStored != 1 || meta.Results.GamesFetched != 1 {
		t.Errorf("Results = %+v", meta.Results)
	}
	if meta.Results.CompletedAt.Before(meta.Results.StartedAt) {
		t.Error("CompletedAt before StartedAt")
	}
	if meta.Results.Duration == "" {
		t.Error("Duration not set")
	}
	if meta.Error != "" {
		t.Errorf("Error = %q, want empty", meta.Error)
	}

	failed := tracker.GenerateMetadata("1.0.0", params, errors.New("user not found"))
	if failed.Error != "user not found" {
		t.Errorf("Error = %q", failed.Error)
	}
}

func TestTracker_UniqueIDs(t *testing.T) {
	if New().ID() == New().ID() {
		t.Error("two trackers share an import ID")
	}
}

func TestSaveAndLoadMetadata(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "meta")

	meta := &ImportMetadata{
		Version:  "dev",
		ImportID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Parameters: ImportParams{
			Source:    "folder",
			Directory: "/tmp/pgn",
			Output:    "games.db",
			Table:     "game",
		},
		Results: ImportResults{
			GamesFetched: 2,
			GamesStored:  2,
			StartedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			CompletedAt:  time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC),
			Duration:     "1s",
		},
	}

	path, err := SaveMetadata(meta, dir)
	if err != nil {
		t.Fatalf("SaveMetadata() error = %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "import-metadata-1709294400-0f8fad5b") || !strings.HasSuffix(base, ".json") {
		t.Errorf("unexpected filename %q", base)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata() error = %v", err)
	}
	if loaded.ImportID != meta.ImportID || loaded.Parameters != meta.Parameters {
		t.Errorf("loaded = %+v, want %+v", loaded, meta)
	}
	if !loaded.Results.StartedAt.Equal(meta.Results.StartedAt) {
		t.Errorf("StartedAt = %v", loaded.Results.StartedAt)
	}
	if loaded.Results.GamesStored != 2 {
		t.Errorf("GamesStored = %d", loaded.Results.GamesStored)
	}
}

func TestSaveMetadata_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := SaveMetadata(&ImportMetadata{}, filepath.Join(file, "sub"))
	if err == nil || !strings.Contains(err.Error(), "failed to create metadata directory") {
		t.Errorf("SaveMetadata() error = %v", err)
	}
}

func TestLoadMetadata_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadMetadata(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMetadata(bad); err == nil || !strings.Contains(err.Error(), "failed to parse metadata") {
		t.Errorf("LoadMetadata() error = %v", err)
	}
}

func TestImportMetadata_Fields(t *testing.T) {
	meta := New().GenerateMetadata("dev", ImportParams{Source: "lichess.org"}, nil)
	fields := meta.Fields()
	keys := make(map[string]bool, len(fields))
	for _, f := range fields {
		keys[f.Key] = true
	}
	for _, k := range []string{"import_id", "source", "games_stored", "archives_skipped", "duration"} {
		if !keys[k] {
			t.Errorf("missing field %q", k)
		}
	}
}
