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
	"fmt"
	"net/url"
)

// RelatedObject is one external resource attached to a zaak: the link
// resource that ties them together and the underlying resource itself.
type RelatedObject struct {
	LinkUrl     string
	ResourceUrl string
}

// ExternalRegister is the capability interface for pluggable integrations
// with systems outside the ZGW registries that hold zaak-related data.
// Variants are registered statically at startup, keyed by slug.
type ExternalRegister interface {
	Slug() string
	CheckConfig(ctx context.Context) error
	ListRelated(ctx context.Context, zaakUrl string) ([]RelatedObject, error)
	Delete(ctx context.Context, resourceUrl string) error
	Unlink(ctx context.Context, linkUrl string, zaakUrl string) error
}

// ContactmomentenRegister integrates the customer-contact registry. Related
// objects are objectcontactmoment links pointing at contactmoment resources.
type ContactmomentenRegister struct {
	c *RegistryClient
}

func NewContactmomentenRegister(c *RegistryClient) *ContactmomentenRegister {
	return &ContactmomentenRegister{c: c}
}

func (r *ContactmomentenRegister) Slug() string {
	return r.c.Slug
}

func (r *ContactmomentenRegister) CheckConfig(ctx context.Context) error {
	if r.c.BaseUrl() == "" {
		return fmt.Errorf("contactmomenten register %s has no base url", r.c.Slug)
	}
	return nil
}

type objectContactmoment struct {
	Url           string `json:"url"`
	Contactmoment string `json:"contactmoment"`
	Object        string `json:"object"`
}

func (r *ContactmomentenRegister) ListRelated(ctx context.Context, zaakUrl string) ([]RelatedObject, error) {
	params := url.Values{"object": []string{zaakUrl}}
	links, err := ListAllPages[objectContactmoment](ctx, r.c, r.c.Endpoint("objectcontactmomenten"), params)
	if err != nil {
		return nil, err
	}
	related := make([]RelatedObject, 0, len(links))
	for _, link := range links {
		related = append(related, RelatedObject{
			LinkUrl:     link.Url,
			ResourceUrl: link.Contactmoment,
		})
	}
	return related, nil
}

func (r *ContactmomentenRegister) Delete(ctx context.Context, resourceUrl string) error {
	return r.c.DeleteResource(ctx, resourceUrl)
}

// Unlink removes the objectcontactmoment link; the contactmoment itself stays
// (it may belong to other zaken).
func (r *ContactmomentenRegister) Unlink(ctx context.Context, linkUrl string, zaakUrl string) error {
	return r.c.DeleteResource(ctx, linkUrl)
}
