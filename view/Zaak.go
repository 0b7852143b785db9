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

package view

// Shapes of the upstream ZGW registry resources, limited to the fields the
// destruction engine reads. Everything else stays inside the raw snapshot.

type Zaak struct {
	Url           string  `json:"url"`
	Uuid          string  `json:"uuid"`
	Identificatie string  `json:"identificatie"`
	Omschrijving  string  `json:"omschrijving"`
	Zaaktype      string  `json:"zaaktype"`
	Startdatum    string  `json:"startdatum"`
	Einddatum     *string `json:"einddatum"`
	Resultaat     *string `json:"resultaat"`
}

type ZaakObject struct {
	Url        string `json:"url"`
	Zaak       string `json:"zaak"`
	Object     string `json:"object"`
	ObjectType string `json:"objectType"`
}

type ZaakInformatieObject struct {
	Url              string `json:"url"`
	Zaak             string `json:"zaak"`
	InformatieObject string `json:"informatieobject"`
}

type Besluit struct {
	Url         string `json:"url"`
	Zaak        string `json:"zaak"`
	Besluittype string `json:"besluittype"`
}

type BesluitInformatieObject struct {
	Url              string `json:"url"`
	Besluit          string `json:"besluit"`
	InformatieObject string `json:"informatieobject"`
}

type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
