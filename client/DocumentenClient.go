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

import "context"

// DocumentenClient speaks the document registry (Documenten API). Only the
// delete operation is needed; document content never passes through here.
type DocumentenClient struct {
	c *RegistryClient
}

func NewDocumentenClient(c *RegistryClient) *DocumentenClient {
	return &DocumentenClient{c: c}
}

func (d *DocumentenClient) DeleteDocument(ctx context.Context, documentUrl string) error {
	return d.c.DeleteResource(ctx, documentUrl)
}
