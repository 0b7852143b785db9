// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindUnreachable   ErrorKind = "unreachable"
	KindUpstream5xx   ErrorKind = "upstream_5xx"
	KindUpstream4xx   ErrorKind = "upstream_4xx"
	KindConflict      ErrorKind = "conflict"
	KindNotConfigured ErrorKind = "not_configured"
)

// RegistryError is the taxonomy every Gateway call reduces its failures to.
type RegistryError struct {
	Kind       ErrorKind
	StatusCode int
	Url        string
	Body       string
}

func (e *RegistryError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream registry error (%s, http %d) on %s: %s", e.Kind, e.StatusCode, e.Url, e.Body)
	}
	return fmt.Sprintf("upstream registry error (%s) on %s: %s", e.Kind, e.Url, e.Body)
}

func ErrorKindOf(err error) (ErrorKind, bool) {
	var registryErr *RegistryError
	if errors.As(err, &registryErr) {
		return registryErr.Kind, true
	}
	return "", false
}

func IsConflict(err error) bool {
	kind, ok := ErrorKindOf(err)
	return ok && kind == KindConflict
}

// IsRetryable reports whether a later retry of the same call can succeed
// without operator intervention.
func IsRetryable(err error) bool {
	kind, ok := ErrorKindOf(err)
	return ok && (kind == KindUnreachable || kind == KindUpstream5xx)
}

// IsNotFound reports whether the upstream answered 404 on a read.
func IsNotFound(err error) bool {
	var registryErr *RegistryError
	if errors.As(err, &registryErr) {
		return registryErr.StatusCode == 404
	}
	return false
}

func NotConfiguredError(family string) *RegistryError {
	return &RegistryError{
		Kind: KindNotConfigured,
		Body: fmt.Sprintf("no service registered for api family %q", family),
	}
}

// classifyDeleteFailure maps an upstream non-2xx delete response. The ZGW
// registries answer 400 with "kan niet verwijderd worden" (or 409) when the
// resource still has references.
func classifyDeleteFailure(url string, status int, body string) *RegistryError {
	switch {
	case status >= 500:
		return &RegistryError{Kind: KindUpstream5xx, StatusCode: status, Url: url, Body: body}
	case status == 409:
		return &RegistryError{Kind: KindConflict, StatusCode: status, Url: url, Body: body}
	case status == 400 && strings.Contains(body, "kan niet verwijderd worden"):
		return &RegistryError{Kind: KindConflict, StatusCode: status, Url: url, Body: body}
	default:
		return &RegistryError{Kind: KindUpstream4xx, StatusCode: status, Url: url, Body: body}
	}
}
