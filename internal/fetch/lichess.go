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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

const lichessName = "lichess.org"

// LichessSource reads games from the lichess.org user export. The export is
// newest first; with a positive page size it is walked in pages using the
// until parameter. Each page after the first asks for games up to and
// including the oldest timestamp seen so far, and games already delivered at
// that timestamp are skipped.
type LichessSource struct {
	baseURL  string
	pageSize int
	req      *requester
	logger   *zap.Logger
	tracker  *metadata.Tracker
}

// NewLichessSource creates a source against baseURL, e.g. https://lichess.org.
// A pageSize of zero requests the whole export at once.
func NewLichessSource(baseURL string, pageSize int, client *http.Client, logger *zap.Logger, tracker *metadata.Tracker) *LichessSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("service", lichessName))
	return &LichessSource{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		req:      newRequester(client, logger, tracker),
		logger:   logger,
		tracker:  tracker,
	}
}

func (s *LichessSource) Name() string { return lichessName }

// handlerError marks an error returned by the GameHandler so it is passed
// back unchanged instead of being treated as a page failure.
type handlerError struct{ err error }

func (e *handlerError) Error() string { return e.err.Error() }
func (e *handlerError) Unwrap() error { return e.err }

// page is the outcome of one export request.
type page struct {
	games  int
	oldest int64
	// fresh counts the games not delivered by an earlier page.
	fresh int
	// atOldest holds the IDs of the games created at oldest.
	atOldest map[string]bool
}

// FetchGames implements Source.
func (s *LichessSource) FetchGames(ctx context.Context, user string, handle GameHandler) error {
	var (
		until int64
		seen  map[string]bool
	)

	for n := 0; ; n++ {
		p, err := s.fetchPage(ctx, user, until, seen, handle)
		if err != nil {
			var herr *handlerError
			if errors.As(err, &herr) {
				return herr.err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			mapped := s.req.mapError(err, lichessName, user)
			if n == 0 {
				return mapped
			}
			s.logger.Warn("stopping export after failed page",
				zap.Int("page", n+1),
				zap.Error(mapped),
				zap.NamedError("cause", err))
			s.tracker.IncrementSkippedArchive()
			return nil
		}

		s.logger.Debug("export page done", zap.Int("page", n+1), zap.Int("games", p.games))

		if s.pageSize <= 0 || p.games < s.pageSize {
			return nil
		}
		if p.oldest <= 0 {
			s.logger.Warn("export page has no creation times, cannot request the next page", zap.Int("page", n+1))
			return nil
		}
		switch {
		case p.oldest != until:
			until, seen = p.oldest, p.atOldest
		case p.fresh > 0:
			// The page ended on the timestamp it was requested with.
			merged := make(map[string]bool, len(seen)+len(p.atOldest))
			for id := range seen {
				merged[id] = true
			}
			for id := range p.atOldest {
				merged[id] = true
			}
			seen = merged
		default:
			// A full page of games already delivered: more than a page of
			// games share this timestamp and the export cannot address the rest.
			s.logger.Debug("stepping past timestamp",
				zap.Int("page", n+1),
				zap.Int64("created_at", p.oldest))
			until, seen = p.oldest-1, nil
		}
	}
}

// exportURL builds the export request for one page.
func (s *LichessSource) exportURL(user string, until int64) string {
	q := url.Values{}
	q.Set("pgnInJson", "true")
	q.Set("opening", "true")
	if s.pageSize > 0 {
		q.Set("max", strconv.Itoa(s.pageSize))
	}
	if until > 0 {
		q.Set("until", strconv.FormatInt(until, 10))
	}
	return fmt.Sprintf("%s/api/games/user/%s?%s", s.baseURL, url.PathEscape(user), q.Encode())
}

// fetchPage streams one export response to handle. Games whose ID is in seen
// were delivered by the previous page and are not passed on again.
func (s *LichessSource) fetchPage(ctx context.Context, user string, until int64, seen map[string]bool, handle GameHandler) (page, error) {
	exportURL := s.exportURL(user, until)
	header := http.Header{"Accept": []string{"application/x-ndjson"}}

	resp, err := s.req.get(ctx, exportURL, header)
	if err != nil {
		return page{}, err
	}
	defer resp.Body.Close()

	var p page
	dec := json.NewDecoder(resp.Body)
	for {
		var g LichessGame
		if err := dec.Decode(&g); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return p, fmt.Errorf("failed to decode export from %s: %w", exportURL, err)
		}

		p.games++
		if g.CreatedAt > 0 && (p.oldest == 0 || g.CreatedAt < p.oldest) {
			p.oldest = g.CreatedAt
			p.atOldest = make(map[string]bool)
		}
		if g.CreatedAt > 0 && g.CreatedAt == p.oldest && g.ID != "" {
			p.atOldest[g.ID] = true
		}

		if g.ID != "" && seen[g.ID] {
			continue
		}
		p.fresh++
		fields := []zap.Field{
			zap.String("game", g.ID),
			zap.String("variant", g.Variant),
			zap.String("speed", g.Speed),
		}
		if strings.TrimSpace(g.PGN) == "" {
			s.logger.Debug("skipping game without pgn", fields...)
			continue
		}
		s.logger.Debug("export game", fields...)
		if err := handle(g.PGN); err != nil {
			return p, &handlerError{err: err}
		}
	}

	return p, nil
}
