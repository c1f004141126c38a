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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/pgn-to-sqlite/internal/importer"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

// newFolderCommand creates the folder command
func newFolderCommand(stderr io.Writer) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "folder <dir>",
		Short: "Import every .pgn file in a folder",
		Long: `Import every file ending in .pgn (any case) directly inside DIR.
Subdirectories are not searched. A file may hold several games; each game
becomes one row. Files that cannot be read are reported and skipped.`,
		Example: `  pgn-to-sqlite folder ./downloads --output games.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("cannot read folder %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a folder", dir)
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			params := metadata.ImportParams{
				Source:    "folder",
				Directory: dir,
				Output:    opts.output,
			}

			return runImport(cmd.Context(), cfg, stderr, params,
				func(ctx context.Context, im *importer.Importer, _ *zap.Logger, _ *metadata.Tracker) error {
					return im.ImportFolder(ctx, dir)
				})
		},
	}

	opts.addFlags(cmd)

	return cmd
}
