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

import (
	"testing"

	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/test/testutil"
)

// Compile-time checks that every source implements Source
var (
	_ Source = (*ChessComSource)(nil)
	_ Source = (*LichessSource)(nil)
	_ Source = (*MockSource)(nil)
)

func TestNormalizeSite(t *testing.T) {
	tests := []struct {
		site    string
		want    string
		wantErr bool
	}{
		{"chess", SiteChessCom, false},
		{"chess.com", SiteChessCom, false},
		{"Chess.com", SiteChessCom, false},
		{" lichess ", SiteLichess, false},
		{"lichess.org", SiteLichess, false},
		{"LICHESS", SiteLichess, false},
		{"fics", "", true},
		{"", "", true},
		{"chess.org", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.site, func(t *testing.T) {
			got, err := NormalizeSite(tt.site)
			if tt.wantErr {
				testutil.AssertErrorIs(t, err, pgnerrors.ErrInvalidSite)
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}

func TestNewSource(t *testing.T) {
	cfg := config.DefaultConfig()

	src, err := NewSource("chess", cfg, Options{})
	testutil.AssertNoError(t, err)
	chessCom, ok := src.(*ChessComSource)
	if !ok {
		t.Fatalf("NewSource(chess) = %T", src)
	}
	testutil.AssertEqual(t, chessCom.Name(), "chess.com")
	testutil.AssertEqual(t, chessCom.baseURL, "https://api.chess.com")
	testutil.AssertEqual(t, chessCom.cacheTTL, cfg.Cache.TTL)

	cfg.Lichess.PageSize = 50
	cfg.Lichess.BaseURL = "https://lichess.example/"
	src, err = NewSource("lichess", cfg, Options{})
	testutil.AssertNoError(t, err)
	lichess, ok := src.(*LichessSource)
	if !ok {
		t.Fatalf("NewSource(lichess) = %T", src)
	}
	testutil.AssertEqual(t, lichess.Name(), "lichess.org")
	testutil.AssertEqual(t, lichess.pageSize, 50)
	testutil.AssertEqual(t, lichess.baseURL, "https://lichess.example")

	_, err = NewSource("playchess", cfg, Options{})
	testutil.AssertErrorIs(t, err, pgnerrors.ErrInvalidSite)
	testutil.AssertErrorContains(t, err, `unknown site "playchess"`)
}

func TestLichessExportURL(t *testing.T) {
	src := NewLichessSource("https://lichess.org", 100, nil, nil, nil)
	got := src.exportURL("Some User", 1699999999999)
	want := "https://lichess.org/api/games/user/Some%20User?max=100&opening=true&pgnInJson=true&until=1699999999999"
	testutil.AssertEqual(t, got, want)

	src = NewLichessSource("https://lichess.org", 0, nil, nil, nil)
	testutil.AssertEqual(t, src.exportURL("thibault", 0), "https://lichess.org/api/games/user/thibault?opening=true&pgnInJson=true")
}
