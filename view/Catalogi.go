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

type Zaaktype struct {
	Url                     string `json:"url"`
	Identificatie           string `json:"identificatie"`
	Omschrijving            string `json:"omschrijving"`
	SelectielijstProcestype string `json:"selectielijstProcestype"`
}

type Resultaattype struct {
	Url                 string `json:"url"`
	Omschrijving        string `json:"omschrijving"`
	SelectielijstKlasse string `json:"selectielijstklasse"`
}

type SelectielijstResultaat struct {
	Url            string `json:"url"`
	Nummer         int    `json:"nummer"`
	VolledigNummer string `json:"volledigNummer"`
	Naam           string `json:"naam"`
	Waardering     string `json:"waardering"`
	Bewaartermijn  string `json:"bewaartermijn"`
}
