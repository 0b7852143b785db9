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

// SelectielijstClient reads retention metadata from the selection-list
// registry. Read-only.
type SelectielijstClient struct {
	c *RegistryClient
}

func NewSelectielijstClient(c *RegistryClient) *SelectielijstClient {
	return &SelectielijstClient{c: c}
}

func (s *SelectielijstClient) GetResultaat(ctx context.Context, resultaatUrl string) (*view.SelectielijstResultaat, error) {
	var resultaat view.SelectielijstResultaat
	if err := s.c.GetJSON(ctx, resultaatUrl, nil, &resultaat); err != nil {
		return nil, err
	}
	return &resultaat, nil
}
