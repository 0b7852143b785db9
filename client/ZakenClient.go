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

// ZakenClient speaks the case registry (Zaken API).
type ZakenClient struct {
	c *RegistryClient
}

func NewZakenClient(c *RegistryClient) *ZakenClient {
	return &ZakenClient{c: c}
}

func (z *ZakenClient) GetZaak(ctx context.Context, zaakUrl string) (*view.Zaak, error) {
	var zaak view.Zaak
	if err := z.c.GetJSON(ctx, zaakUrl, nil, &zaak); err != nil {
		return nil, err
	}
	return &zaak, nil
}

func (z *ZakenClient) DeleteZaak(ctx context.Context, zaakUrl string) error {
	return z.c.DeleteResource(ctx, zaakUrl)
}

func (z *ZakenClient) ListZaakObjecten(ctx context.Context, zaakUrl string) ([]view.ZaakObject, error) {
	params := url.Values{"zaak": []string{zaakUrl}}
	return ListAllPages[view.ZaakObject](ctx, z.c, z.c.Endpoint("zaakobjecten"), params)
}

func (z *ZakenClient) DeleteZaakObject(ctx context.Context, zaakObjectUrl string) error {
	return z.c.DeleteResource(ctx, zaakObjectUrl)
}

func (z *ZakenClient) ListZaakInformatieObjecten(ctx context.Context, zaakUrl string) ([]view.ZaakInformatieObject, error) {
	var links []view.ZaakInformatieObject
	params := url.Values{"zaak": []string{zaakUrl}}
	// zaakinformatieobjecten is one of the few unpaginated ZGW listings
	if err := z.c.GetJSON(ctx, z.c.Endpoint("zaakinformatieobjecten"), params, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (z *ZakenClient) DeleteZaakInformatieObject(ctx context.Context, linkUrl string) error {
	return z.c.DeleteResource(ctx, linkUrl)
}
