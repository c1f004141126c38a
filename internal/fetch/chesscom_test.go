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
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sirseerhq/pgn-to-sqlite/internal/cache"
	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
	"github.com/sirseerhq/pgn-to-sqlite/test/testutil"
)

func testHTTPClient() *http.Client {
	cfg := config.DefaultConfig().HTTP
	cfg.Timeout = 5 * time.Second
	return NewHTTPClient(cfg, "")
}

// collect returns a handler that appends every game to games.
func collect(games *[]string) GameHandler {
	return func(pgn string) error {
		*games = append(*games, pgn)
		return nil
	}
}

func TestChessComSource_FetchGames(t *testing.T) {
	games := testutil.NumberedGames(3)
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2020/12", PGNs: games[:2]},
		testutil.ArchiveFixture{Month: "2021/01", PGNs: []string{"", games[2]}},
	)

	core, logs := observer.New(zapcore.DebugLevel)
	tracker := metadata.New()
	src := NewChessComSource(server.URL, testHTTPClient(), zap.New(core), tracker)

	var got []string
	if err := src.FetchGames(context.Background(), "EndlessTrax", collect(&got)); err != nil {
		t.Fatalf("FetchGames() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d games, want 3", len(got))
	}
	testutil.AssertEqual(t, logs.FilterMessage("skipping game without pgn").Len(), 1)
	stored := logs.FilterMessage("archive game").All()
	testutil.AssertEqual(t, len(stored), 3)
	fields := stored[0].ContextMap()
	testutil.AssertEqual(t, fields["rules"], "chess")
	testutil.AssertEqual(t, fields["time_class"], "blitz")
	for i := range games {
		if got[i] != games[i] {
			t.Errorf("game %d out of order", i)
		}
	}

	results := tracker.Results()
	if results.APICallCount != 3 {
		t.Errorf("APICallCount = %d, want 3", results.APICallCount)
	}
	if results.ArchivesSkipped != 0 {
		t.Errorf("ArchivesSkipped = %d, want 0", results.ArchivesSkipped)
	}
}

func TestChessComSource_EmptyArchiveList(t *testing.T) {
	server := testutil.NewChessComServer(t, "newbie")
	src := NewChessComSource(server.URL, testHTTPClient(), nil, nil)

	calls := 0
	err := src.FetchGames(context.Background(), "newbie", func(string) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("FetchGames() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("handler called %d times", calls)
	}
}

func TestChessComSource_IndexFailures(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *testutil.ChessComServer)
		user      string
		wantErr   error
		wantInMsg string
	}{
		{
			name:      "unknown player",
			user:      "ghost",
			wantErr:   pgnerrors.ErrUserNotFound,
			wantInMsg: `player "ghost" not found on chess.com`,
		},
		{
			name:      "rate limited",
			setup:     func(s *testutil.ChessComServer) { s.IndexStatus = http.StatusTooManyRequests },
			user:      "EndlessTrax",
			wantErr:   pgnerrors.ErrRateLimit,
			wantInMsg: "rate limit",
		},
		{
			name:      "server error",
			setup:     func(s *testutil.ChessComServer) { s.IndexStatus = http.StatusBadGateway },
			user:      "EndlessTrax",
			wantErr:   pgnerrors.ErrUnexpectedStatus,
			wantInMsg: "status 502",
		},
		{
			name:    "not json",
			setup:   func(s *testutil.ChessComServer) { s.IndexBody = "<html>maintenance</html>" },
			user:    "EndlessTrax",
			wantErr: pgnerrors.ErrMalformedResponse,
		},
		{
			name:      "missing archives field",
			setup:     func(s *testutil.ChessComServer) { s.IndexBody = `{"code":0}` },
			user:      "EndlessTrax",
			wantErr:   pgnerrors.ErrMalformedResponse,
			wantInMsg: "no archives field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewChessComServer(t, "EndlessTrax",
				testutil.ArchiveFixture{Month: "2021/01", PGNs: testutil.NumberedGames(1)})
			if tt.setup != nil {
				tt.setup(server)
			}

			src := NewChessComSource(server.URL, testHTTPClient(), nil, nil)
			err := src.FetchGames(context.Background(), tt.user, func(string) error {
				t.Error("handler must not be called")
				return nil
			})

			testutil.AssertErrorIs(t, err, tt.wantErr)
			if tt.wantInMsg != "" {
				testutil.AssertErrorContains(t, err, tt.wantInMsg)
			}
		})
	}
}

func TestChessComSource_ConnectionRefused(t *testing.T) {
	src := NewChessComSource(testutil.ClosedServerURL(t), testHTTPClient(), nil, nil)

	err := src.FetchGames(context.Background(), "EndlessTrax", collect(new([]string)))
	testutil.AssertErrorIs(t, err, pgnerrors.ErrNetworkFailure)
}

func TestChessComSource_Timeout(t *testing.T) {
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	cfg := config.DefaultConfig().HTTP
	cfg.Timeout = 50 * time.Millisecond
	src := NewChessComSource(server.URL, NewHTTPClient(cfg, ""), nil, nil)

	err := src.FetchGames(context.Background(), "EndlessTrax", collect(new([]string)))
	testutil.AssertErrorIs(t, err, pgnerrors.ErrNetworkFailure)
}

func TestChessComSource_SkipsFailedArchives(t *testing.T) {
	games := testutil.NumberedGames(2)
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2020/10", PGNs: games[:1]},
		testutil.ArchiveFixture{Month: "2020/11", Status: http.StatusInternalServerError},
		testutil.ArchiveFixture{Month: "2020/12", Body: `{"games": "nope"}`},
		testutil.ArchiveFixture{Month: "2021/01", Body: `{"other": []}`},
		testutil.ArchiveFixture{Month: "2021/02", PGNs: games[1:]},
	)

	core, logs := observer.New(zapcore.WarnLevel)
	tracker := metadata.New()
	src := NewChessComSource(server.URL, testHTTPClient(), zap.New(core), tracker)

	var got []string
	if err := src.FetchGames(context.Background(), "EndlessTrax", collect(&got)); err != nil {
		t.Fatalf("FetchGames() error = %v", err)
	}

	if len(got) != 2 || got[0] != games[0] || got[1] != games[1] {
		t.Errorf("got %d games, want the first and last archive's games", len(got))
	}
	if skipped := tracker.Results().ArchivesSkipped; skipped != 3 {
		t.Errorf("ArchivesSkipped = %d, want 3", skipped)
	}

	warnings := logs.FilterMessage("skipping archive").All()
	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3", len(warnings))
	}
	if url := warnings[0].ContextMap()["url"]; url != server.ArchiveURL("2020/11") {
		t.Errorf("first warning url = %v", url)
	}
	if msg := fmt.Sprint(warnings[0].ContextMap()["error"]); !strings.Contains(msg, "status 500") {
		t.Errorf("first warning error = %q", msg)
	}
}

func TestChessComSource_SkipsArchiveOnConnectionError(t *testing.T) {
	games := testutil.NumberedGames(1)
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2021/01", PGNs: games})
	closed := testutil.ClosedServerURL(t)

	// The index points at an archive on a server that is gone, then at a live one.
	server.IndexBody = fmt.Sprintf(`{"archives":[%q,%q]}`,
		closed+"/pub/player/endlesstrax/games/2020/12",
		server.ArchiveURL("2021/01"))

	tracker := metadata.New()
	src := NewChessComSource(server.URL, testHTTPClient(), nil, tracker)

	var got []string
	if err := src.FetchGames(context.Background(), "EndlessTrax", collect(&got)); err != nil {
		t.Fatalf("FetchGames() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d games, want 1", len(got))
	}
	if tracker.Results().ArchivesSkipped != 1 {
		t.Errorf("ArchivesSkipped = %d, want 1", tracker.Results().ArchivesSkipped)
	}
}

func TestChessComSource_HandlerErrorStops(t *testing.T) {
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2021/01", PGNs: testutil.NumberedGames(3)},
		testutil.ArchiveFixture{Month: "2021/02", PGNs: testutil.NumberedGames(3)},
	)
	src := NewChessComSource(server.URL, testHTTPClient(), nil, nil)

	stop := errors.New("disk full")
	calls := 0
	err := src.FetchGames(context.Background(), "EndlessTrax", func(string) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Fatalf("FetchGames() error = %v, want handler error", err)
	}
	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
	if n := server.Requests("/pub/player/endlesstrax/games/2021/02"); n != 0 {
		t.Errorf("second archive requested %d times after handler error", n)
	}
}

func TestChessComSource_CanceledContext(t *testing.T) {
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2021/01", PGNs: testutil.NumberedGames(1)},
		testutil.ArchiveFixture{Month: "2021/02", PGNs: testutil.NumberedGames(1)},
	)
	src := NewChessComSource(server.URL, testHTTPClient(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := src.FetchGames(ctx, "EndlessTrax", func(string) error {
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FetchGames() error = %v, want context.Canceled", err)
	}
}

func TestChessComSource_ArchiveCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	c, err := cache.Open(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	games := testutil.NumberedGames(3)
	server := testutil.NewChessComServer(t, "EndlessTrax",
		testutil.ArchiveFixture{Month: "2020/12", PGNs: games[:2]},
		testutil.ArchiveFixture{Month: "2021/01", PGNs: games[2:]},
	)

	run := func() ([]string, metadata.ImportResults) {
		tracker := metadata.New()
		src := NewChessComSource(server.URL, testHTTPClient(), nil, tracker)
		src.SetCache(c, time.Hour)

		var got []string
		if err := src.FetchGames(context.Background(), "EndlessTrax", collect(&got)); err != nil {
			t.Fatalf("FetchGames() error = %v", err)
		}
		return got, tracker.Results()
	}

	first, firstResults := run()
	second, secondResults := run()

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("got %d and %d games, want 3 each", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("game %d differs between cached and uncached run", i)
		}
	}

	if n := server.Requests("/pub/player/endlesstrax/games/2020/12"); n != 1 {
		t.Errorf("old archive requested %d times, want 1", n)
	}
	if n := server.Requests("/pub/player/endlesstrax/games/2021/01"); n != 2 {
		t.Errorf("newest archive requested %d times, want 2", n)
	}
	if firstResults.CacheHits != 0 || secondResults.CacheHits != 1 {
		t.Errorf("cache hits = %d then %d, want 0 then 1", firstResults.CacheHits, secondResults.CacheHits)
	}
	if secondResults.APICallCount != 2 {
		t.Errorf("second run APICallCount = %d, want 2", secondResults.APICallCount)
	}
}
