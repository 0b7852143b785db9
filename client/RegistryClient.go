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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/view"
)

const acceptCrsHeader = "EPSG:4326"

// maxResponseBytes caps what we keep of an upstream body for error traces.
const maxResponseBytes = 4096

// RegistryClient is the shared HTTP layer under every typed upstream client.
// It is safe for concurrent use.
type RegistryClient struct {
	Slug       string
	ApiFamily  view.ApiFamily
	baseUrl    string
	httpClient *http.Client
	applyAuth  authApplier
	// the zaken registry family mandates Accept-Crs on queries
	useCrsHeader bool
}

func NewRegistryClient(svc config.ServiceConfig, timeout time.Duration) *RegistryClient {
	return &RegistryClient{
		Slug:      svc.Slug,
		ApiFamily: svc.ApiFamily,
		baseUrl:   strings.TrimRight(svc.BaseUrl, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		applyAuth:    makeAuthApplier(svc),
		useCrsHeader: svc.ApiFamily == view.ApiFamilyZaken,
	}
}

func (c *RegistryClient) BaseUrl() string {
	return c.baseUrl
}

func (c *RegistryClient) Endpoint(path string) string {
	return c.baseUrl + "/" + strings.TrimLeft(path, "/")
}

func (c *RegistryClient) newRequest(ctx context.Context, method string, rawUrl string, params url.Values) (*http.Request, error) {
	if len(params) > 0 {
		separator := "?"
		if strings.Contains(rawUrl, "?") {
			separator = "&"
		}
		rawUrl = rawUrl + separator + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, rawUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.useCrsHeader && method == http.MethodGet {
		req.Header.Set("Accept-Crs", acceptCrsHeader)
	}
	if err := c.applyAuth(req); err != nil {
		return nil, err
	}
	return req, nil
}

// GetJSON fetches rawUrl and decodes the body into out.
func (c *RegistryClient) GetJSON(ctx context.Context, rawUrl string, params url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, rawUrl, params)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RegistryError{Kind: KindUnreachable, Url: rawUrl, Body: err.Error()}
	}
	defer resp.Body.Close()
	// error bodies are capped, success bodies are read in full
	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &RegistryError{Kind: KindUpstream5xx, StatusCode: resp.StatusCode, Url: rawUrl, Body: string(body)}
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &RegistryError{Kind: KindUpstream4xx, StatusCode: resp.StatusCode, Url: rawUrl, Body: string(body)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RegistryError{Kind: KindUnreachable, Url: rawUrl, Body: err.Error()}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", rawUrl, err)
	}
	return nil
}

// DeleteResource issues a DELETE. A 404 means someone already removed the
// resource at the upstream, so it is reported as success.
func (c *RegistryClient) DeleteResource(ctx context.Context, rawUrl string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, rawUrl, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RegistryError{Kind: KindUnreachable, Url: rawUrl, Body: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 300 || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	return classifyDeleteFailure(rawUrl, resp.StatusCode, string(body))
}

// ListAllPages follows "next" links of a paginated ZGW listing and collects
// every result.
func ListAllPages[T any](ctx context.Context, c *RegistryClient, rawUrl string, params url.Values) ([]T, error) {
	var results []T
	pageUrl := rawUrl
	pageParams := params
	for pageUrl != "" {
		var page view.Paginated[T]
		if err := c.GetJSON(ctx, pageUrl, pageParams, &page); err != nil {
			return nil, err
		}
		results = append(results, page.Results...)
		if page.Next == nil {
			break
		}
		// next links already carry the query string
		pageUrl = *page.Next
		pageParams = nil
	}
	return results, nil
}
