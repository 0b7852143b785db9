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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/stretchr/testify/assert"
)

func makeZakenClient(baseUrl string) *RegistryClient {
	return NewRegistryClient(config.ServiceConfig{
		Slug:      "zaken",
		ApiFamily: view.ApiFamilyZaken,
		BaseUrl:   baseUrl,
		AuthType:  view.AuthTypeZgw,
		ClientId:  "archiefbeheer",
		Secret:    "test-secret",
	}, 5*time.Second)
}

func TestDeleteResourceSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	err := client.DeleteResource(context.Background(), server.URL+"/zaken/z1")
	assert.NoError(t, err)
}

func TestDeleteResource404IsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	err := client.DeleteResource(context.Background(), server.URL+"/zaken/z1")
	assert.NoError(t, err)
}

func TestDeleteResource409IsConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	err := client.DeleteResource(context.Background(), server.URL+"/zaken/z1")
	assert.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsRetryable(err))
}

func TestDeleteResourceDutch400IsConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Dit object kan niet verwijderd worden, er zijn gerelateerde besluiten."}`))
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	err := client.DeleteResource(context.Background(), server.URL+"/zaken/z1")
	assert.True(t, IsConflict(err))

	// any other 400 is a plain upstream_4xx
	other := classifyDeleteFailure("u", http.StatusBadRequest, `{"detail": "ongeldige url"}`)
	assert.Equal(t, KindUpstream4xx, other.Kind)
}

func TestDeleteResource5xxIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	err := client.DeleteResource(context.Background(), server.URL+"/zaken/z1")
	assert.True(t, IsRetryable(err))
}

func TestUnreachableHostIsRetryable(t *testing.T) {
	client := makeZakenClient("http://127.0.0.1:1")
	err := client.DeleteResource(context.Background(), "http://127.0.0.1:1/zaken/z1")
	assert.True(t, IsRetryable(err))
	kind, ok := ErrorKindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUnreachable, kind)
}

func TestGetJSON404IsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"/zaken/z1", nil, &out)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsRetryable(err))
}

func TestAcceptCrsHeaderOnZakenReadsOnly(t *testing.T) {
	var getCrs, deleteCrs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			getCrs = r.Header.Get("Accept-Crs")
			w.Write([]byte(`{}`))
			return
		}
		deleteCrs = r.Header.Get("Accept-Crs")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	var out map[string]interface{}
	assert.NoError(t, client.GetJSON(context.Background(), server.URL+"/zaken/z1", nil, &out))
	assert.NoError(t, client.DeleteResource(context.Background(), server.URL+"/zaken/z1"))
	assert.Equal(t, "EPSG:4326", getCrs)
	assert.Equal(t, "", deleteCrs)

	// non-zaken registries never send the header
	documentenClient := NewRegistryClient(config.ServiceConfig{
		Slug:      "documenten",
		ApiFamily: view.ApiFamilyDocumenten,
		BaseUrl:   server.URL,
		AuthType:  view.AuthTypeNone,
	}, 5*time.Second)
	getCrs = "unset"
	assert.NoError(t, documentenClient.GetJSON(context.Background(), server.URL+"/eio/d1", nil, &out))
	assert.Equal(t, "", getCrs)
}

func TestZgwAuthMintsBearerToken(t *testing.T) {
	var authorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	var out map[string]interface{}
	assert.NoError(t, client.GetJSON(context.Background(), server.URL+"/zaken/z1", nil, &out))
	assert.True(t, strings.HasPrefix(authorization, "Bearer "))

	token, err := jwt.Parse(strings.TrimPrefix(authorization, "Bearer "), func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, token.Valid)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "archiefbeheer", claims["client_id"])
	assert.Equal(t, "archiefbeheer", claims["iss"])
}

func TestApiKeyAuth(t *testing.T) {
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewRegistryClient(config.ServiceConfig{
		Slug:         "objects",
		ApiFamily:    view.ApiFamilyExternalRegister,
		BaseUrl:      server.URL,
		AuthType:     view.AuthTypeApiKey,
		ApiKeyHeader: "X-Api-Key",
		ApiKey:       "token abc123",
	}, 5*time.Second)
	var out map[string]interface{}
	assert.NoError(t, client.GetJSON(context.Background(), server.URL+"/objects/o1", nil, &out))
	assert.Equal(t, "token abc123", apiKey)
}

func TestListAllPagesFollowsNext(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.Write([]byte(`{"count": 3, "next": null, "results": [{"url": "https://zaken.example.nl/zaakobjecten/zo3"}]}`))
			return
		}
		w.Write([]byte(`{"count": 3, "next": "` + server.URL + `/zaakobjecten?page=2", "results": [
			{"url": "https://zaken.example.nl/zaakobjecten/zo1"},
			{"url": "https://zaken.example.nl/zaakobjecten/zo2"}
		]}`))
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	results, err := ListAllPages[view.ZaakObject](context.Background(), client, server.URL+"/zaakobjecten", nil)
	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "https://zaken.example.nl/zaakobjecten/zo3", results[2].Url)
}

func TestGetJsonReadsLargeBodiesInFull(t *testing.T) {
	// a single listing page of 60 results is well past 4KB; the body cap
	// applies to error responses only
	page := view.Paginated[view.ZaakObject]{Count: 60}
	for i := 0; i < 60; i++ {
		page.Results = append(page.Results, view.ZaakObject{
			Url: fmt.Sprintf("https://zaken.example.nl/api/v1/zaakobjecten/%08d-0000-0000-0000-%012d", i, i),
		})
	}
	payload, err := json.Marshal(page)
	assert.NoError(t, err)
	assert.Greater(t, len(payload), 4096)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	client := makeZakenClient(server.URL)
	var decoded view.Paginated[view.ZaakObject]
	err = client.GetJSON(context.Background(), server.URL+"/zaakobjecten", nil, &decoded)
	assert.NoError(t, err)
	assert.Len(t, decoded.Results, 60)
	assert.Equal(t, page.Results[59].Url, decoded.Results[59].Url)
}
