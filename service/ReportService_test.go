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

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func makeCatalogPool(baseUrl string) client.ClientPool {
	return client.NewClientPool([]config.ServiceConfig{
		{Slug: "catalogi", ApiFamily: view.ApiFamilyCatalogi, BaseUrl: baseUrl, AuthType: view.AuthTypeNone},
		{Slug: "selectielijst", ApiFamily: view.ApiFamilySelectielijst, BaseUrl: baseUrl, AuthType: view.AuthTypeNone},
	}, 5*time.Second)
}

func TestBuildReportResolvesRetentionClass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "resultaattypen"):
			w.Write([]byte(`{"url": "` + r.URL.Path + `", "omschrijving": "Afgehandeld",
				"selectielijstklasse": "http://` + r.Host + `/api/v1/resultaten/sl1"}`))
		case strings.Contains(r.URL.Path, "resultaten"):
			w.Write([]byte(`{"url": "` + r.URL.Path + `", "volledigNummer": "11.1",
				"naam": "Verleend", "waardering": "vernietigen", "bewaartermijn": "P5Y"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	list := makeTestList(view.ListStatusDeleted)
	listRepo := newFakeListRepository(list)
	listRepo.addItem(&entity.DestructionListItemEntity{
		Uuid: "44444444-4444-4444-4444-444444444444", ListUuid: testListUuid,
		ZaakUrl: "https://zaken.example.nl/api/v1/zaken/z1",
		Status:  string(view.ItemStatusSuggested), ProcessingStatus: string(view.ProcessingStatusSucceeded),
		ExtraZaakData: map[string]interface{}{
			"identificatie": "ZAAK-2017-001",
			"resultaat": map[string]interface{}{
				"url":           "https://zaken.example.nl/api/v1/resultaten/r1",
				"resultaattype": server.URL + "/api/v1/resultaattypen/rt1",
			},
		},
	})

	reportService := NewReportService(config.ReportConfig{}, listRepo, makeCatalogPool(server.URL))
	location, err := reportService.BuildReport(context.Background(), testListUuid)
	assert.NoError(t, err)
	defer os.Remove(location)

	workbook, err := excelize.OpenFile(location)
	assert.NoError(t, err)
	defer workbook.Close()
	rows, err := workbook.GetRows("Vernietigde zaken")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	header := rows[0]
	assert.Equal(t, "Selectielijstklasse", header[len(header)-2])
	assert.Equal(t, "Bewaartermijn", header[len(header)-1])
	dataRow := rows[1]
	assert.Equal(t, "11.1", dataRow[len(header)-2])
	assert.Equal(t, "P5Y", dataRow[len(header)-1])
}

func TestBuildReportWithoutCatalogsLeavesClassEmpty(t *testing.T) {
	list := makeTestList(view.ListStatusDeleted)
	listRepo := newFakeListRepository(list)
	listRepo.addItem(&entity.DestructionListItemEntity{
		Uuid: "44444444-4444-4444-4444-444444444444", ListUuid: testListUuid,
		ZaakUrl: "https://zaken.example.nl/api/v1/zaken/z1",
		Status:  string(view.ItemStatusSuggested), ProcessingStatus: string(view.ProcessingStatusSucceeded),
	})

	reportService := NewReportService(config.ReportConfig{}, listRepo, nil)
	location, err := reportService.BuildReport(context.Background(), testListUuid)
	assert.NoError(t, err)
	defer os.Remove(location)

	workbook, err := excelize.OpenFile(location)
	assert.NoError(t, err)
	defer workbook.Close()
	rows, err := workbook.GetRows("Vernietigde zaken")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "https://zaken.example.nl/api/v1/zaken/z1", rows[1][0])
}
