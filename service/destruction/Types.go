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
	"errors"

	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/view"
)

// Resource kinds as they appear in the per-item ledger. External register
// resources use the register slug as their kind.
const (
	KindZaken                     = "zaken"
	KindZaakObjecten              = "zaakobjecten"
	KindZaakInformatieObjecten    = "zaakinformatieobjecten"
	KindBesluiten                 = "besluiten"
	KindBesluitInformatieObjecten = "besluitinformatieobjecten"
	KindDocumenten                = "documenten"
)

type StepAction string

const (
	ActionDelete StepAction = "delete"
	ActionUnlink StepAction = "unlink"
)

// PlanStep is one upstream call of a deletion plan. QueueDocument, when set,
// names a document that becomes deletable once this link is gone; the
// executor journals it before touching the link.
type PlanStep struct {
	Kind   string
	Url    string
	Action StepAction
	// ZaakUrl is the case the step belongs to; external registers need it to
	// unlink a related object from the right case.
	ZaakUrl       string
	QueueDocument string
}

// CaseGraph is the fully enumerated relation graph of one zaak, fetched up
// front so planning stays a pure function.
type CaseGraph struct {
	ZaakUrl                   string
	ZaakObjecten              []view.ZaakObject
	ZaakInformatieObjecten    []view.ZaakInformatieObject
	Besluiten                 []view.Besluit
	BesluitInformatieObjecten map[string][]view.BesluitInformatieObject
	// External holds related objects per register slug.
	External map[string][]client.RelatedObject
}

// ErrZaakGone signals that the zaak no longer exists upstream; the item can
// be settled without issuing any deletes.
var ErrZaakGone = errors.New("zaak no longer exists upstream")

// Gateway is the executor's only window onto the upstream registries.
type Gateway interface {
	// FetchCaseGraph enumerates every relation of the zaak. Returns
	// ErrZaakGone when the zaak itself answers 404.
	FetchCaseGraph(ctx context.Context, zaakUrl string) (*CaseGraph, error)
	Delete(ctx context.Context, kind string, url string) error
	Unlink(ctx context.Context, registerSlug string, linkUrl string, zaakUrl string) error
}

// Reporter produces the destruction report after every item of a list
// succeeded. Returns a location of the stored report.
type Reporter interface {
	BuildReport(ctx context.Context, listUuid string) (string, error)
}

// Completer marks the destruction list deleted through the workflow once the
// run succeeded.
type Completer func(ctx context.Context, listUuid string) error
