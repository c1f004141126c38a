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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI with args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCommand(stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return mapErrorToExitCode(err)
	}
	return 0
}

func newRootCommand(stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pgn-to-sqlite",
		Short: "Save chess games from chess.com or lichess.org into a SQLite database",
		Long: `pgn-to-sqlite downloads every game a player has played on chess.com or
lichess.org, or reads a folder of PGN files, and stores one row per game
with its tags and move text in a SQLite database.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.AddCommand(newFetchCommand(stderr))
	rootCmd.AddCommand(newFolderCommand(stderr))

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, pgnerrors.ErrUserNotFound) ||
		errors.Is(err, pgnerrors.ErrRateLimit) ||
		errors.Is(err, pgnerrors.ErrUnexpectedStatus) {
		return 2 // The service refused the request
	}

	if errors.Is(err, pgnerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	if errors.Is(err, pgnerrors.ErrMalformedResponse) {
		return 4 // Undecodable responses
	}

	return 1 // General error
}
