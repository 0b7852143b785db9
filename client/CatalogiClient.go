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

	"github.com/maykinmedia/archiefbeheer/view"
)

// CatalogiClient reads type metadata from the catalog registry (Catalogi API).
// Read-only: the catalog is never mutated by the destruction pipeline.
type CatalogiClient struct {
	c *RegistryClient
}

func NewCatalogiClient(c *RegistryClient) *CatalogiClient {
	return &CatalogiClient{c: c}
}

func (cc *CatalogiClient) GetZaaktype(ctx context.Context, zaaktypeUrl string) (*view.Zaaktype, error) {
	var zaaktype view.Zaaktype
	if err := cc.c.GetJSON(ctx, zaaktypeUrl, nil, &zaaktype); err != nil {
		return nil, err
	}
	return &zaaktype, nil
}

func (cc *CatalogiClient) GetResultaattype(ctx context.Context, resultaattypeUrl string) (*view.Resultaattype, error) {
	var resultaattype view.Resultaattype
	if err := cc.c.GetJSON(ctx, resultaattypeUrl, nil, &resultaattype); err != nil {
		return nil, err
	}
	return &resultaattype, nil
}
