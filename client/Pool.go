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
	"sync"
	"time"

	"github.com/gosimple/slug"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
)

// registerFactories maps the stable register identifier to its constructor.
// Registration is static; there is no runtime plugin discovery.
var registerFactories = map[string]func(*RegistryClient) ExternalRegister{
	"contactmomenten": func(c *RegistryClient) ExternalRegister { return NewContactmomentenRegister(c) },
}

// ClientPool hands out one shared RegistryClient per configured service slug.
// Clients are cached; Invalidate drops them after a config change.
type ClientPool interface {
	ClientForFamily(family view.ApiFamily) (*RegistryClient, error)
	ClientForSlug(serviceSlug string) (*RegistryClient, error)
	ExternalRegisters() []ExternalRegister
	CheckConfigured(ctx context.Context, families []view.ApiFamily) error
	Invalidate()
}

func NewClientPool(services []config.ServiceConfig, timeout time.Duration) ClientPool {
	pool := &clientPoolImpl{
		timeout: timeout,
		cache:   libcache.LRU.New(0),
	}
	for _, svc := range services {
		svc.Slug = slug.Make(svc.Slug)
		pool.services = append(pool.services, svc)
	}
	return pool
}

type clientPoolImpl struct {
	services []config.ServiceConfig
	timeout  time.Duration

	mu    sync.Mutex
	cache libcache.Cache
}

func (p *clientPoolImpl) ClientForFamily(family view.ApiFamily) (*RegistryClient, error) {
	for _, svc := range p.services {
		if svc.ApiFamily == family {
			return p.clientFor(svc), nil
		}
	}
	return nil, NotConfiguredError(string(family))
}

func (p *clientPoolImpl) ClientForSlug(serviceSlug string) (*RegistryClient, error) {
	serviceSlug = slug.Make(serviceSlug)
	for _, svc := range p.services {
		if svc.Slug == serviceSlug {
			return p.clientFor(svc), nil
		}
	}
	return nil, NotConfiguredError(serviceSlug)
}

func (p *clientPoolImpl) clientFor(svc config.ServiceConfig) *RegistryClient {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.cache.Load(svc.Slug); ok {
		return cached.(*RegistryClient)
	}
	c := NewRegistryClient(svc, p.timeout)
	p.cache.Store(svc.Slug, c)
	return c
}

func (p *clientPoolImpl) ExternalRegisters() []ExternalRegister {
	var registers []ExternalRegister
	for _, svc := range p.services {
		if svc.ApiFamily != view.ApiFamilyExternalRegister {
			continue
		}
		factory, ok := registerFactories[svc.Slug]
		if !ok {
			log.Warnf("No external register implementation for slug %s, skipping", svc.Slug)
			continue
		}
		registers = append(registers, factory(p.clientFor(svc)))
	}
	return registers
}

// CheckConfigured verifies that every required api family has a service and
// that every external register accepts its configuration. start_destruction
// refuses to run when this fails.
func (p *clientPoolImpl) CheckConfigured(ctx context.Context, families []view.ApiFamily) error {
	for _, family := range families {
		if _, err := p.ClientForFamily(family); err != nil {
			return err
		}
	}
	for _, register := range p.ExternalRegisters() {
		if err := register.CheckConfig(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *clientPoolImpl) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Purge()
}
