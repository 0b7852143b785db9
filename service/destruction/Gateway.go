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

package destruction

import (
	"context"
	"fmt"

	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/metrics"
	"github.com/maykinmedia/archiefbeheer/view"
)

// NewRegistryGateway builds a Gateway on top of the configured service pool.
func NewRegistryGateway(pool client.ClientPool) Gateway {
	return &registryGateway{pool: pool}
}

type registryGateway struct {
	pool client.ClientPool
}

func (g *registryGateway) zaken() (*client.ZakenClient, error) {
	c, err := g.pool.ClientForFamily(view.ApiFamilyZaken)
	if err != nil {
		return nil, err
	}
	return client.NewZakenClient(c), nil
}

func (g *registryGateway) besluiten() (*client.BesluitenClient, error) {
	c, err := g.pool.ClientForFamily(view.ApiFamilyBesluiten)
	if err != nil {
		return nil, err
	}
	return client.NewBesluitenClient(c), nil
}

func (g *registryGateway) documenten() (*client.DocumentenClient, error) {
	c, err := g.pool.ClientForFamily(view.ApiFamilyDocumenten)
	if err != nil {
		return nil, err
	}
	return client.NewDocumentenClient(c), nil
}

func (g *registryGateway) register(slug string) (client.ExternalRegister, error) {
	for _, register := range g.pool.ExternalRegisters() {
		if register.Slug() == slug {
			return register, nil
		}
	}
	return nil, client.NotConfiguredError(slug)
}

func (g *registryGateway) FetchCaseGraph(ctx context.Context, zaakUrl string) (*CaseGraph, error) {
	zaken, err := g.zaken()
	if err != nil {
		return nil, err
	}
	besluiten, err := g.besluiten()
	if err != nil {
		return nil, err
	}

	if _, err := zaken.GetZaak(ctx, zaakUrl); err != nil {
		if client.IsNotFound(err) {
			return nil, ErrZaakGone
		}
		return nil, err
	}

	graph := &CaseGraph{
		ZaakUrl:                   zaakUrl,
		BesluitInformatieObjecten: map[string][]view.BesluitInformatieObject{},
		External:                  map[string][]client.RelatedObject{},
	}
	if graph.ZaakObjecten, err = zaken.ListZaakObjecten(ctx, zaakUrl); err != nil {
		return nil, err
	}
	if graph.ZaakInformatieObjecten, err = zaken.ListZaakInformatieObjecten(ctx, zaakUrl); err != nil {
		return nil, err
	}
	if graph.Besluiten, err = besluiten.ListBesluiten(ctx, zaakUrl); err != nil {
		return nil, err
	}
	for _, besluit := range graph.Besluiten {
		links, err := besluiten.ListBesluitInformatieObjecten(ctx, besluit.Url)
		if err != nil {
			return nil, err
		}
		graph.BesluitInformatieObjecten[besluit.Url] = links
	}
	for _, register := range g.pool.ExternalRegisters() {
		related, err := register.ListRelated(ctx, zaakUrl)
		if err != nil {
			return nil, err
		}
		graph.External[register.Slug()] = related
	}
	return graph, nil
}

func (g *registryGateway) Delete(ctx context.Context, kind string, url string) error {
	metrics.UpstreamDeletes.WithLabelValues(kind).Inc()
	switch kind {
	case KindZaken:
		zaken, err := g.zaken()
		if err != nil {
			return err
		}
		return zaken.DeleteZaak(ctx, url)
	case KindZaakObjecten:
		zaken, err := g.zaken()
		if err != nil {
			return err
		}
		return zaken.DeleteZaakObject(ctx, url)
	case KindZaakInformatieObjecten:
		zaken, err := g.zaken()
		if err != nil {
			return err
		}
		return zaken.DeleteZaakInformatieObject(ctx, url)
	case KindBesluiten:
		besluiten, err := g.besluiten()
		if err != nil {
			return err
		}
		return besluiten.DeleteBesluit(ctx, url)
	case KindBesluitInformatieObjecten:
		besluiten, err := g.besluiten()
		if err != nil {
			return err
		}
		return besluiten.DeleteBesluitInformatieObject(ctx, url)
	case KindDocumenten:
		documenten, err := g.documenten()
		if err != nil {
			return err
		}
		return documenten.DeleteDocument(ctx, url)
	}
	// any other kind is an external register slug
	register, err := g.register(kind)
	if err != nil {
		return err
	}
	if err := register.Delete(ctx, url); err != nil {
		return fmt.Errorf("external register %s failed to delete %s: %w", kind, url, err)
	}
	return nil
}

func (g *registryGateway) Unlink(ctx context.Context, registerSlug string, linkUrl string, zaakUrl string) error {
	register, err := g.register(registerSlug)
	if err != nil {
		return err
	}
	return register.Unlink(ctx, linkUrl, zaakUrl)
}
