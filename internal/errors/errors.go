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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidSite indicates the site selector is not one of the supported services.
	// Maps to exit code 1.
	ErrInvalidSite = errors.New("invalid site")

	// ErrUserNotFound indicates the game service does not know the requested player.
	// Maps to exit code 2.
	ErrUserNotFound = errors.New("user not found")

	// ErrRateLimit indicates the game service rejected the request with 429.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrUnexpectedStatus indicates any other non-2xx response.
	// Maps to exit code 2.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrNetworkFailure indicates a network connection problem or timeout.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrMalformedResponse indicates a body that could not be decoded or lacks an expected field.
	// Maps to exit code 4.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrStorage indicates the game store could not be opened or written.
	// Maps to exit code 1.
	ErrStorage = errors.New("storage failure")
)
