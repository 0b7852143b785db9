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
	"net/url"

	"github.com/maykinmedia/archiefbeheer/view"
)

// BesluitenClient speaks the decision registry (Besluiten API).
type BesluitenClient struct {
	c *RegistryClient
}

func NewBesluitenClient(c *RegistryClient) *BesluitenClient {
	return &BesluitenClient{c: c}
}

func (b *BesluitenClient) ListBesluiten(ctx context.Context, zaakUrl string) ([]view.Besluit, error) {
	params := url.Values{"zaak": []string{zaakUrl}}
	return ListAllPages[view.Besluit](ctx, b.c, b.c.Endpoint("besluiten"), params)
}

func (b *BesluitenClient) DeleteBesluit(ctx context.Context, besluitUrl string) error {
	return b.c.DeleteResource(ctx, besluitUrl)
}

func (b *BesluitenClient) ListBesluitInformatieObjecten(ctx context.Context, besluitUrl string) ([]view.BesluitInformatieObject, error) {
	var links []view.BesluitInformatieObject
	params := url.Values{"besluit": []string{besluitUrl}}
	if err := b.c.GetJSON(ctx, b.c.Endpoint("besluitinformatieobjecten"), params, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (b *BesluitenClient) DeleteBesluitInformatieObject(ctx context.Context, linkUrl string) error {
	return b.c.DeleteResource(ctx, linkUrl)
}
