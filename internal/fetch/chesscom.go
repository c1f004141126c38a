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
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/cache"
	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

const chessComName = "chess.com"

// ChessComSource reads games from the chess.com published-data API. It asks
// for the player's archive list and then downloads every monthly archive.
type ChessComSource struct {
	baseURL  string
	req      *requester
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
	tracker  *metadata.Tracker
}

// NewChessComSource creates a source against baseURL, e.g. https://api.chess.com.
func NewChessComSource(baseURL string, client *http.Client, logger *zap.Logger, tracker *metadata.Tracker) *ChessComSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("service", chessComName))
	return &ChessComSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		req:     newRequester(client, logger, tracker),
		cache:   cache.Nop{},
		logger:  logger,
		tracker: tracker,
	}
}

// SetCache enables caching of every archive except the newest, which may
// still receive games.
func (s *ChessComSource) SetCache(c cache.Cache, ttl time.Duration) {
	if c == nil {
		c = cache.Nop{}
	}
	s.cache = c
	s.cacheTTL = ttl
}

func (s *ChessComSource) Name() string { return chessComName }

// FetchGames implements Source.
func (s *ChessComSource) FetchGames(ctx context.Context, user string, handle GameHandler) error {
	archives, err := s.listArchives(ctx, user)
	if err != nil {
		return err
	}

	s.logger.Info("found monthly archives", zap.String("user", user), zap.Int("archives", len(archives)))

	for i, archiveURL := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}

		archive, err := s.fetchArchive(ctx, archiveURL, i < len(archives)-1)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.logger.Warn("skipping archive",
				zap.String("url", archiveURL),
				zap.Error(s.req.mapError(err, chessComName, user)),
				zap.NamedError("cause", err))
			s.tracker.IncrementSkippedArchive()
			continue
		}

		for _, g := range archive.Games {
			fields := []zap.Field{
				zap.String("game", g.URL),
				zap.String("rules", g.Rules),
				zap.String("time_class", g.TimeClass),
			}
			if strings.TrimSpace(g.PGN) == "" {
				s.logger.Debug("skipping game without pgn", fields...)
				continue
			}
			s.logger.Debug("archive game", fields...)
			if err := handle(g.PGN); err != nil {
				return err
			}
		}
	}

	return nil
}

// listArchives fetches the archive index. Any failure aborts the import.
func (s *ChessComSource) listArchives(ctx context.Context, user string) ([]string, error) {
	indexURL := fmt.Sprintf("%s/pub/player/%s/games/archives", s.baseURL, url.PathEscape(user))

	body, err := s.req.getBody(ctx, indexURL, nil)
	if err != nil {
		return nil, s.req.mapError(err, chessComName, user)
	}

	var index ArchiveIndex
	if err := decode(body, indexURL, &index); err != nil {
		return nil, s.req.mapError(err, chessComName, user)
	}
	if index.Archives == nil {
		return nil, fmt.Errorf("chess.com archive list for %q has no archives field: %w", user, pgnerrors.ErrMalformedResponse)
	}

	return index.Archives, nil
}

// fetchArchive downloads one monthly archive, consulting the cache first
// when cacheable is set.
func (s *ChessComSource) fetchArchive(ctx context.Context, archiveURL string, cacheable bool) (*Archive, error) {
	if cacheable {
		body, ok, err := s.cache.Get(ctx, archiveURL)
		if err != nil {
			s.logger.Debug("archive cache lookup failed", zap.String("url", archiveURL), zap.Error(err))
		}
		if ok {
			var archive Archive
			if err := decode(body, archiveURL, &archive); err == nil && archive.Games != nil {
				s.tracker.IncrementCacheHit()
				s.logger.Debug("archive served from cache", zap.String("url", archiveURL))
				return &archive, nil
			}
			s.logger.Debug("ignoring unreadable cached archive", zap.String("url", archiveURL))
		}
	}

	body, err := s.req.getBody(ctx, archiveURL, nil)
	if err != nil {
		return nil, err
	}

	var archive Archive
	if err := decode(body, archiveURL, &archive); err != nil {
		return nil, err
	}
	if archive.Games == nil {
		return nil, fmt.Errorf("archive %s has no games field: %w", archiveURL, pgnerrors.ErrMalformedResponse)
	}

	if cacheable {
		if err := s.cache.Set(ctx, archiveURL, body, s.cacheTTL); err != nil {
			s.logger.Debug("failed to cache archive", zap.String("url", archiveURL), zap.Error(err))
		}
	}

	return &archive, nil
}
