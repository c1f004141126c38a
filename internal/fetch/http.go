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

	"go.uber.org/zap"

	pgnerrors "github.com/sirseerhq/pgn-to-sqlite/internal/errors"
	"github.com/sirseerhq/pgn-to-sqlite/internal/fetcherror"
	"github.com/sirseerhq/pgn-to-sqlite/internal/metadata"
)

// StatusError is returned for a response outside the 2xx range.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.Code)
}

// IsNotFoundError reports whether the service answered 404.
func (e *StatusError) IsNotFoundError() bool { return e.Code == http.StatusNotFound }

// IsRateLimitError reports whether the service answered 429.
func (e *StatusError) IsRateLimitError() bool { return e.Code == http.StatusTooManyRequests }

// requester issues GET requests and counts them.
type requester struct {
	client    *http.Client
	inspector fetcherror.Inspector
	logger    *zap.Logger
	tracker   *metadata.Tracker
}

func newRequester(client *http.Client, logger *zap.Logger, tracker *metadata.Tracker) *requester {
	return &requester{
		client:    client,
		inspector: fetcherror.NewChainInspector(fetcherror.NewInspector()),
		logger:    logger,
		tracker:   tracker,
	}
}

// get performs the request and returns the response only for a 2xx status.
// The caller closes the body.
func (r *requester) get(ctx context.Context, rawURL string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	r.tracker.IncrementAPICall()
	r.logger.Debug("requesting", zap.String("url", rawURL))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, URL: rawURL}
	}

	return resp, nil
}

// getBody reads the whole body of a successful response.
func (r *requester) getBody(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	resp, err := r.get(ctx, rawURL, header)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	return body, nil
}

// decode unmarshals body into v, keeping the JSON error in the chain.
func decode(body []byte, rawURL string, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawURL, err)
	}
	return nil
}

// mapError maps request errors to our domain errors with actionable messages.
func (r *requester) mapError(err error, service, user string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	// Errors that already carry a sentinel pass through unchanged.
	for _, sentinel := range []error{
		pgnerrors.ErrUserNotFound,
		pgnerrors.ErrRateLimit,
		pgnerrors.ErrUnexpectedStatus,
		pgnerrors.ErrNetworkFailure,
		pgnerrors.ErrMalformedResponse,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case r.inspector.IsRateLimitError(err):
			return fmt.Errorf("%s rate limit exceeded. Please wait before retrying: %w", service, pgnerrors.ErrRateLimit)
		case r.inspector.IsNotFoundError(err):
			return fmt.Errorf("player %q not found on %s. Please check the username: %w", user, service, pgnerrors.ErrUserNotFound)
		default:
			return fmt.Errorf("%s answered with status %d: %w", service, statusErr.Code, pgnerrors.ErrUnexpectedStatus)
		}
	}

	if r.inspector.IsMalformedError(err) {
		return fmt.Errorf("%s sent a response that could not be decoded (%v): %w", service, err, pgnerrors.ErrMalformedResponse)
	}

	if r.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to %s. Please check your internet connection and try again: %w", service, pgnerrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch games from %s: %w", service, err)
}
