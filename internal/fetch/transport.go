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
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirseerhq/pgn-to-sqlite/internal/config"
	"github.com/sirseerhq/pgn-to-sqlite/pkg/version"
)

// NewHTTPClient builds the client used by a Source. token is sent as a
// bearer token when non-empty.
//
// cfg.Timeout bounds connecting, the TLS handshake and the wait for response
// headers. Reading the body is not limited, so a long lichess export keeps
// streaming for as long as the server sends games.
func NewHTTPClient(cfg config.HTTPConfig, token string) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.Timeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = fmt.Sprintf("pgn-to-sqlite/%s", version.Version)
	}

	return &http.Client{
		Transport: &authTransport{
			token:     token,
			userAgent: userAgent,
			maxBytes:  cfg.MaxResponseBytes,
			base:      transport,
		},
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds identification and optional authentication headers and
// caps response bodies at maxBytes.
type authTransport struct {
	token     string
	userAgent string
	maxBytes  int64
	base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", t.userAgent)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil && t.maxBytes > 0 {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      t.maxBytes,
		}
	}

	return resp, nil
}
