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
	"sort"

	"github.com/maykinmedia/archiefbeheer/utils"
)

// BuildPlan turns a case graph into the ordered list of upstream calls that
// dismantles the zaak. Referential order is strict: external registers first,
// then zaakobjecten, then besluiten with their document links, then the
// zaak's own document links, then the documents themselves and finally the
// zaak. Excluded urls are left untouched; when an upstream hard reference
// makes the zaak undeletable because of that, the conflict surfaces on the
// final delete.
func BuildPlan(graph *CaseGraph, excluded map[string]bool) []PlanStep {
	var steps []PlanStep
	var documents []string

	queueDocument := func(documentUrl string) string {
		if documentUrl == "" || excluded[documentUrl] {
			return ""
		}
		documents = append(documents, documentUrl)
		return documentUrl
	}

	slugs := make([]string, 0, len(graph.External))
	for slug := range graph.External {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		for _, related := range graph.External[slug] {
			if !excluded[related.ResourceUrl] {
				steps = append(steps, PlanStep{Kind: slug, Url: related.ResourceUrl, Action: ActionDelete})
			}
			if !excluded[related.LinkUrl] {
				steps = append(steps, PlanStep{Kind: slug, Url: related.LinkUrl, Action: ActionUnlink, ZaakUrl: graph.ZaakUrl})
			}
		}
	}

	for _, zaakObject := range graph.ZaakObjecten {
		if excluded[zaakObject.Url] {
			continue
		}
		steps = append(steps, PlanStep{Kind: KindZaakObjecten, Url: zaakObject.Url, Action: ActionDelete})
	}

	for _, besluit := range graph.Besluiten {
		if excluded[besluit.Url] {
			// keeping the besluit keeps its document links too
			continue
		}
		for _, link := range graph.BesluitInformatieObjecten[besluit.Url] {
			if excluded[link.Url] {
				continue
			}
			steps = append(steps, PlanStep{
				Kind:          KindBesluitInformatieObjecten,
				Url:           link.Url,
				Action:        ActionDelete,
				QueueDocument: queueDocument(link.InformatieObject),
			})
		}
		steps = append(steps, PlanStep{Kind: KindBesluiten, Url: besluit.Url, Action: ActionDelete})
	}

	for _, link := range graph.ZaakInformatieObjecten {
		if excluded[link.Url] {
			continue
		}
		steps = append(steps, PlanStep{
			Kind:          KindZaakInformatieObjecten,
			Url:           link.Url,
			Action:        ActionDelete,
			QueueDocument: queueDocument(link.InformatieObject),
		})
	}

	// a document may back several links; delete it once
	for _, documentUrl := range utils.UniqueSlice(documents) {
		steps = append(steps, PlanStep{Kind: KindDocumenten, Url: documentUrl, Action: ActionDelete})
	}

	steps = append(steps, PlanStep{Kind: KindZaken, Url: graph.ZaakUrl, Action: ActionDelete})
	return steps
}
