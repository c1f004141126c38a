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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// ArchiveFixture is one monthly archive served by ChessComServer.
type ArchiveFixture struct {
	// Month is the archive path suffix, e.g. "2021/01".
	Month string
	// PGNs are the games of the month. An empty string yields a game without pgn.
	PGNs []string
	// Status, when non-zero, is returned instead of the archive.
	Status int
	// Body, when non-empty, is returned verbatim instead of the archive.
	Body string
}

// ChessComServer behaves like the chess.com published-data API for one player.
type ChessComServer struct {
	*httptest.Server
	User     string
	Archives []ArchiveFixture

	// IndexStatus, when non-zero, is returned for the archive list.
	IndexStatus int
	// IndexBody, when non-empty, replaces the archive list body.
	IndexBody string

	mu       sync.Mutex
	requests map[string]int
}

// NewChessComServer serves archives for user. Any other user gets a 404
// shaped like the real API's.
func NewChessComServer(t *testing.T, user string, archives ...ArchiveFixture) *ChessComServer {
	t.Helper()

	m := &ChessComServer{
		User:     user,
		Archives: archives,
		requests: make(map[string]int),
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requests[r.URL.Path]++
		m.mu.Unlock()

		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		prefix := "/pub/player/" + strings.ToLower(m.User) + "/games/"
		path := strings.ToLower(r.URL.Path)
		if !strings.HasPrefix(path, prefix) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"code":    0,
				"message": fmt.Sprintf("User %q not found.", strings.TrimPrefix(r.URL.Path, "/pub/player/")),
			})
			return
		}

		rest := strings.TrimPrefix(path, prefix)
		if rest == "archives" {
			m.serveIndex(w)
			return
		}
		m.serveArchive(w, rest)
	}))
	t.Cleanup(m.Close)

	return m
}

func (m *ChessComServer) serveIndex(w http.ResponseWriter) {
	if m.IndexStatus != 0 {
		writeJSON(w, m.IndexStatus, map[string]any{"message": http.StatusText(m.IndexStatus)})
		return
	}
	if m.IndexBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(m.IndexBody))
		return
	}

	urls := make([]string, 0, len(m.Archives))
	for _, a := range m.Archives {
		urls = append(urls, m.ArchiveURL(a.Month))
	}
	writeJSON(w, http.StatusOK, map[string]any{"archives": urls})
}

func (m *ChessComServer) serveArchive(w http.ResponseWriter, month string) {
	for _, a := range m.Archives {
		if a.Month != month {
			continue
		}
		if a.Status != 0 {
			writeJSON(w, a.Status, map[string]any{"message": http.StatusText(a.Status)})
			return
		}
		if a.Body != "" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(a.Body))
			return
		}

		games := make([]map[string]any, 0, len(a.PGNs))
		for i, pgn := range a.PGNs {
			game := map[string]any{
				"url":        fmt.Sprintf("https://www.chess.com/game/live/%s/%d", strings.ReplaceAll(a.Month, "/", ""), i),
				"time_class": "blitz",
				"rules":      "chess",
			}
			if pgn != "" {
				game["pgn"] = pgn
			}
			games = append(games, game)
		}
		writeJSON(w, http.StatusOK, map[string]any{"games": games})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "Date is not valid"})
}

// ArchiveURL returns the absolute URL of the archive for month.
func (m *ChessComServer) ArchiveURL(month string) string {
	return m.URL + "/pub/player/" + strings.ToLower(m.User) + "/games/" + month
}

// Requests returns how many times path was requested.
func (m *ChessComServer) Requests(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[path]
}

// TotalRequests returns the number of requests served.
func (m *ChessComServer) TotalRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

// LichessGameFixture is one game served by LichessServer.
type LichessGameFixture struct {
	ID        string
	CreatedAt int64
	PGN       string
}

// LichessRequest records the export parameters of a request.
type LichessRequest struct {
	Max           string
	Until         string
	PGNInJSON     string
	Accept        string
	Authorization string
}

// LichessServer behaves like the lichess.org user export for one player.
// Games are served newest first and honour the max and until parameters.
type LichessServer struct {
	*httptest.Server
	User  string
	Games []LichessGameFixture

	// FailFrom, when positive, makes request number FailFrom and later
	// answer with FailStatus.
	FailFrom   int
	FailStatus int

	mu      sync.Mutex
	history []LichessRequest
}

// NewLichessServer serves games for user. Any other user gets a 404.
func NewLichessServer(t *testing.T, user string, games ...LichessGameFixture) *LichessServer {
	t.Helper()

	sorted := append([]LichessGameFixture(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt > sorted[j].CreatedAt })

	m := &LichessServer{
		User:       user,
		Games:      sorted,
		FailStatus: http.StatusInternalServerError,
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		m.mu.Lock()
		m.history = append(m.history, LichessRequest{
			Max:           q.Get("max"),
			Until:         q.Get("until"),
			PGNInJSON:     q.Get("pgnInJson"),
			Accept:        r.Header.Get("Accept"),
			Authorization: r.Header.Get("Authorization"),
		})
		n := len(m.history)
		m.mu.Unlock()

		if !strings.EqualFold(r.URL.Path, "/api/games/user/"+m.User) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if m.FailFrom > 0 && n >= m.FailFrom {
			w.WriteHeader(m.FailStatus)
			return
		}

		limit := -1
		if v := q.Get("max"); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		var until int64
		if v := q.Get("until"); v != "" {
			until, _ = strconv.ParseInt(v, 10, 64)
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		sent := 0
		for _, g := range m.Games {
			if until > 0 && g.CreatedAt > until {
				continue
			}
			if limit >= 0 && sent >= limit {
				break
			}
			_ = enc.Encode(map[string]any{
				"id":        g.ID,
				"createdAt": g.CreatedAt,
				"variant":   "standard",
				"pgn":       g.PGN,
			})
			sent++
		}
	}))
	t.Cleanup(m.Close)

	return m
}

// History returns the requests received so far.
func (m *LichessServer) History() []LichessRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LichessRequest(nil), m.history...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
