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

package fetcherror

import (
	"encoding/json"
	"errors"
	"net"
	"strings"
)

// Inspector provides methods to classify errors returned by the game services.
type Inspector interface {
	// IsNotFoundError returns true if the error represents an unknown player or resource.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the service throttled the request.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error or timeout.
	IsNetworkError(err error) bool

	// IsMalformedError returns true if a response body could not be decoded.
	IsMalformedError(err error) bool
}

// MessageInspector classifies errors by inspecting their text.
type MessageInspector struct{}

// NewInspector returns the message based inspector.
func NewInspector() Inspector {
	return &MessageInspector{}
}

func (i *MessageInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found")
}

func (i *MessageInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests")
}

func (i *MessageInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "eof")
}

func (i *MessageInspector) IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "invalid character") ||
		strings.Contains(errStr, "cannot unmarshal") ||
		strings.Contains(errStr, "unexpected end of json input") ||
		strings.Contains(errStr, "looking for beginning of value")
}

// ChainInspector checks the wrap chain for typed errors before deferring to base.
type ChainInspector struct {
	base Inspector
}

// NewChainInspector wraps base with typed-error detection.
func NewChainInspector(base Inspector) Inspector {
	return &ChainInspector{base: base}
}

func (c *ChainInspector) IsNotFoundError(err error) bool {
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) {
		return notFoundErr.IsNotFoundError()
	}
	return c.base.IsNotFoundError(err)
}

func (c *ChainInspector) IsRateLimitError(err error) bool {
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.IsRateLimitError()
	}
	return c.base.IsRateLimitError(err)
}

func (c *ChainInspector) IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return c.base.IsNetworkError(err)
}

func (c *ChainInspector) IsMalformedError(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	return c.base.IsMalformedError(err)
}
