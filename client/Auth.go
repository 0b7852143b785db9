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
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/view"
)

type authApplier func(r *http.Request) error

func makeAuthApplier(svc config.ServiceConfig) authApplier {
	switch svc.AuthType {
	case view.AuthTypeZgw:
		return zgwAuthApplier(svc.ClientId, svc.Secret)
	case view.AuthTypeApiKey:
		header := svc.ApiKeyHeader
		if header == "" {
			header = "Authorization"
		}
		key := svc.ApiKey
		return func(r *http.Request) error {
			r.Header.Set(header, key)
			return nil
		}
	default:
		return func(r *http.Request) error { return nil }
	}
}

// zgwAuthApplier mints the short-lived HS256 client-credential token the ZGW
// registries expect on every request.
func zgwAuthApplier(clientId string, secret string) authApplier {
	return func(r *http.Request) error {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss":                 clientId,
			"iat":                 now.Unix(),
			"client_id":           clientId,
			"user_id":             clientId,
			"user_representation": clientId,
		})
		token.Header["client_identifier"] = clientId
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			return fmt.Errorf("failed to sign zgw token: %w", err)
		}
		r.Header.Set("Authorization", "Bearer "+signed)
		return nil
	}
}
