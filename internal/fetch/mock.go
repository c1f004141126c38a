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

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
)

// MockSource is a mock implementation of Source for testing.
type MockSource struct {
	// Games to hand to the handler, in order
	Games []string

	// Error to return after FailAfter games have been handed over
	Error     error
	FailAfter int

	// Behavior flags
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount int
	LastUser  string
}

// NewMockSource creates a mock source with two small games.
func NewMockSource() *MockSource {
	return &MockSource{
		Games: generateTestGames(),
	}
}

func (m *MockSource) Name() string { return "mock" }

// FetchGames implements the Source interface
func (m *MockSource) FetchGames(ctx context.Context, user string, handle GameHandler) error {
	m.CallCount++
	m.LastUser = user

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", pgnerrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound || user == "nonexistent" {
		return fmt.Errorf("player %q not found: %w", user, pgnerrors.ErrUserNotFound)
	}

	for i, g := range m.Games {
		if m.Error != nil && i == m.FailAfter {
			return m.Error
		}
		if err := handle(g); err != nil {
			return err
		}
	}

	if m.Error != nil && m.FailAfter >= len(m.Games) {
		return m.Error
	}

	return nil
}

func generateTestGames() []string {
	return []string{
		`[Event "Live Chess"]
[Site "Chess.com"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[WhiteElo "1500"]
[BlackElo "1480"]

1. e4 e5 2. Qh5 Nc6 3. Bc4 Nf6 4. Qxf7# 1-0`,
		`[Event "Rated Blitz game"]
[Site "https://lichess.org/abcd1234"]
[White "bob"]
[Black "alice"]
[Result "0-1"]
[Opening "Sicilian Defense"]

1. e4 c5 2. Nf3 d6 0-1`,
	}
}

// MockSourceOption allows configuring the mock source
type MockSourceOption func(*MockSource)

// WithGames sets the games to return
func WithGames(games []string) MockSourceOption {
	return func(m *MockSource) {
		m.Games = games
	}
}

// WithError makes the source fail with err after n games
func WithError(err error, n int) MockSourceOption {
	return func(m *MockSource) {
		m.Error = err
		m.FailAfter = n
	}
}

// WithNetworkFailure makes the source fail before any game
func WithNetworkFailure() MockSourceOption {
	return func(m *MockSource) {
		m.ShouldFailNetwork = true
	}
}

// NewMockSourceWithOptions creates a mock source with options
func NewMockSourceWithOptions(opts ...MockSourceOption) *MockSource {
	mock := NewMockSource()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
