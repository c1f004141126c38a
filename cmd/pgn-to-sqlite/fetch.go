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

package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/cache"
	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	"github.com/sirseerhq/pgn-to-sqlite/internal/fetch"
	"github.com/sirseerhq/pgn-to-sqlite/internal/importer"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

// newFetchCommand creates the fetch command
func newFetchCommand(stderr io.Writer) *cobra.Command {
	var (
		opts     importOptions
		user     string
		token    string
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "fetch <chess|lichess>",
		Short: "Download a player's games from chess.com or lichess.org",
		Long: `Download every game of a player and store one row per game.

SITE selects the service:
  chess    (or chess.com)    the chess.com published-data API
  lichess  (or lichess.org)  the lichess.org game export

Games are appended; importing the same player twice stores every game twice.`,
		Example: `  pgn-to-sqlite fetch chess --user EndlessTrax --output games.db
  pgn-to-sqlite fetch lichess -u thibault -o games.db --page-size 200`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := fetch.NormalizeSite(args[0])
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("page-size") {
				cfg.Lichess.PageSize = pageSize
			}
			if cmd.Flags().Changed("token") {
				cfg.Lichess.Token = token
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			params := metadata.ImportParams{
				Source: "chess.com",
				Site:   site,
				User:   user,
				Output: opts.output,
			}
			if site == fetch.SiteLichess {
				params.Source = "lichess.org"
				params.PageSize = cfg.Lichess.PageSize
			}

			return runImport(cmd.Context(), cfg, stderr, params,
				func(ctx context.Context, im *importer.Importer, logger *zap.Logger, tracker *metadata.Tracker) error {
					return runFetch(ctx, cfg, site, user, im, logger, tracker)
				})
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&user, "user", "u", "", "Username on the chess site")
	cmd.Flags().StringVar(&token, "token", "", "lichess.org API token (overrides LICHESS_TOKEN env var)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Games per lichess.org request; 0 downloads the whole export at once")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// runFetch streams the player's games from site into the importer.
func runFetch(ctx context.Context, cfg *config.Config, site, user string, im *importer.Importer, logger *zap.Logger, tracker *metadata.Tracker) error {
	var archiveCache cache.Cache = cache.Nop{}
	if site == fetch.SiteChessCom && cfg.Cache.RedisURL != "" {
		c, err := cache.Open(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn("archive cache unavailable, continuing without it", zap.Error(err))
		} else {
			archiveCache = c
			defer c.Close()
		}
	}

	src, err := fetch.NewSource(site, cfg, fetch.Options{
		Cache:   archiveCache,
		Logger:  logger,
		Tracker: tracker,
	})
	if err != nil {
		return err
	}

	return im.ImportSource(ctx, src, user)
}
