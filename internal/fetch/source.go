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
	"strings"

	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/cache"
	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

// GameHandler receives one raw PGN document. Returning an error stops the fetch
// and FetchGames returns that error unchanged.
type GameHandler func(pgn string) error

// Source defines the interface for downloading a player's games.
// This interface allows for easy mocking in tests.
type Source interface {
	// Name is the service name used in logs and messages, e.g. "chess.com".
	Name() string

	// FetchGames streams every game of user to handle, oldest archive first
	// for chess.com and newest first for lichess.
	FetchGames(ctx context.Context, user string, handle GameHandler) error
}

// Options carries the collaborators of a Source. Zero values are replaced
// with working defaults.
type Options struct {
	// HTTPClient is built from the configuration when nil.
	HTTPClient *http.Client
	// Cache holds immutable chess.com archives. Nil disables caching.
	Cache   cache.Cache
	Logger  *zap.Logger
	Tracker *metadata.Tracker
}

// Site selectors accepted by NewSource.
const (
	SiteChessCom = "chess"
	SiteLichess  = "lichess"
)

// NormalizeSite maps the accepted spellings of a site to SiteChessCom or
// SiteLichess. It returns ErrInvalidSite for anything else.
func NormalizeSite(site string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(site)) {
	case "chess", "chess.com":
		return SiteChessCom, nil
	case "lichess", "lichess.org":
		return SiteLichess, nil
	default:
		return "", fmt.Errorf("unknown site %q. Use 'chess' for chess.com or 'lichess' for lichess.org: %w", site, pgnerrors.ErrInvalidSite)
	}
}

// NewSource returns the Source for site.
func NewSource(site string, cfg *config.Config, opts Options) (Source, error) {
	normalized, err := NormalizeSite(site)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}

	switch normalized {
	case SiteLichess:
		client := opts.HTTPClient
		if client == nil {
			client = NewHTTPClient(cfg.HTTP, cfg.Lichess.Token)
		}
		return NewLichessSource(cfg.Lichess.BaseURL, cfg.Lichess.PageSize, client, opts.Logger, opts.Tracker), nil
	default:
		client := opts.HTTPClient
		if client == nil {
			client = NewHTTPClient(cfg.HTTP, "")
		}
		src := NewChessComSource(cfg.ChessCom.BaseURL, client, opts.Logger, opts.Tracker)
		src.SetCache(opts.Cache, cfg.Cache.TTL)
		return src, nil
	}
}
