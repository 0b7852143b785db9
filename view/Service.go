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

import "fmt"

type ApiFamily string

const (
	ApiFamilyZaken            ApiFamily = "zaken"
	ApiFamilyCatalogi         ApiFamily = "catalogi"
	ApiFamilyDocumenten       ApiFamily = "documenten"
	ApiFamilyBesluiten        ApiFamily = "besluiten"
	ApiFamilySelectielijst    ApiFamily = "selectielijst"
	ApiFamilyExternalRegister ApiFamily = "external_register"
)

func ParseApiFamily(s string) (ApiFamily, error) {
	switch ApiFamily(s) {
	case ApiFamilyZaken, ApiFamilyCatalogi, ApiFamilyDocumenten,
		ApiFamilyBesluiten, ApiFamilySelectielijst, ApiFamilyExternalRegister:
		return ApiFamily(s), nil
	}
	return "", fmt.Errorf("unknown api family: %v", s)
}

// RequiredApiFamilies are the families start_destruction refuses to run without.
func RequiredApiFamilies() []ApiFamily {
	return []ApiFamily{ApiFamilyZaken, ApiFamilyDocumenten, ApiFamilyBesluiten}
}

type AuthType string

const (
	AuthTypeZgw    AuthType = "zgw"
	AuthTypeApiKey AuthType = "api_key"
	AuthTypeNone   AuthType = "none"
)

type Service struct {
	Slug      string    `json:"slug"`
	ApiFamily ApiFamily `json:"apiFamily"`
	BaseUrl   string    `json:"baseUrl"`
	AuthType  AuthType  `json:"authType"`
}
