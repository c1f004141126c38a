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
	"testing"

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
)

func TestMockSource_FetchGames(t *testing.T) {
	ctx := context.Background()

	t.Run("returns default test data", func(t *testing.T) {
		mock := NewMockSource()

		var got []string
		if err := mock.FetchGames(ctx, "alice", collect(&got)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(got) != 2 {
			t.Errorf("expected 2 games, got %d", len(got))
		}
		if mock.CallCount != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount)
		}
		if mock.LastUser != "alice" {
			t.Errorf("expected user 'alice', got %q", mock.LastUser)
		}
	})

	t.Run("simulates network failure", func(t *testing.T) {
		mock := NewMockSourceWithOptions(WithNetworkFailure())

		err := mock.FetchGames(ctx, "alice", collect(new([]string)))
		if !errors.Is(err, pgnerrors.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})

	t.Run("simulates unknown player", func(t *testing.T) {
		mock := NewMockSource()

		err := mock.FetchGames(ctx, "nonexistent", collect(new([]string)))
		if !errors.Is(err, pgnerrors.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("fails after some games", func(t *testing.T) {
		boom := errors.New("boom")
		mock := NewMockSourceWithOptions(WithGames([]string{"a", "b", "c"}), WithError(boom, 2))

		var got []string
		err := mock.FetchGames(ctx, "alice", collect(&got))
		if !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 games before failure, got %d", len(got))
		}
	})

	t.Run("respects canceled context", func(t *testing.T) {
		mock := NewMockSource()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if err := mock.FetchGames(cctx, "alice", collect(new([]string))); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
