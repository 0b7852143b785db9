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
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"github.com/zeebo/xxh3"
)

// ReportService renders the destruction report: one row per destroyed zaak,
// built from the metadata snapshots taken at list creation (the registries no
// longer have the data at this point). The workbook is fingerprinted and
// either uploaded to the configured bucket or kept on local disk.
type ReportService interface {
	BuildReport(ctx context.Context, listUuid string) (string, error)
}

func NewReportService(cfg config.ReportConfig, listRepo repository.DestructionListRepository, pool client.ClientPool) ReportService {
	return &reportServiceImpl{cfg: cfg, listRepo: listRepo, pool: pool}
}

type reportServiceImpl struct {
	cfg      config.ReportConfig
	listRepo repository.DestructionListRepository
	pool     client.ClientPool
}

var reportColumns = []struct {
	header string
	path   string
}{
	{"Zaak", "url"},
	{"Identificatie", "identificatie"},
	{"Omschrijving", "omschrijving"},
	{"Zaaktype", "zaaktype.url"},
	{"Zaaktype omschrijving", "zaaktype.omschrijving"},
	{"Startdatum", "startdatum"},
	{"Einddatum", "einddatum"},
	{"Resultaat", "resultaat.url"},
	{"Archiefnominatie", "archiefnominatie"},
}

// the two rightmost columns are resolved from the type catalogs, which
// outlive the destroyed zaken
var enrichedColumns = []string{"Selectielijstklasse", "Bewaartermijn"}

func (s *reportServiceImpl) BuildReport(ctx context.Context, listUuid string) (string, error) {
	list, err := s.listRepo.GetList(ctx, listUuid)
	if err != nil {
		return "", err
	}
	if list == nil {
		return "", fmt.Errorf("destruction list %s not found", listUuid)
	}
	items, err := s.listRepo.GetItems(ctx, listUuid, []string{string(view.ItemStatusSuggested)})
	if err != nil {
		return "", err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	sheet := "Vernietigde zaken"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create report sheet: %w", err)
	}
	workbook.SetActiveSheet(index)
	workbook.DeleteSheet("Sheet1")

	headers := make([]string, 0, len(reportColumns)+len(enrichedColumns))
	for _, column := range reportColumns {
		headers = append(headers, column.header)
	}
	headers = append(headers, enrichedColumns...)
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return "", err
		}
	}
	enricher := newReportEnricher(s.pool)
	row := 2
	for _, item := range items {
		values := make([]string, 0, len(headers))
		for _, column := range reportColumns {
			value := utils.JsonTreeGetString(item.ExtraZaakData, column.path)
			if value == "" && column.path == "url" {
				value = item.ZaakUrl
			}
			values = append(values, value)
		}
		klasse, bewaartermijn := enricher.retentionClass(ctx,
			utils.JsonTreeGetString(item.ExtraZaakData, "resultaat.resultaattype"))
		values = append(values, klasse, bewaartermijn)
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := workbook.SetCellValue(sheet, cell, value); err != nil {
				return "", err
			}
		}
		row++
	}

	var buf bytes.Buffer
	if err := workbook.Write(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}
	content := buf.Bytes()
	sha := sha256.Sum256(content)
	log.WithFields(log.Fields{
		"listUuid": listUuid,
		"rows":     row - 2,
		"sha256":   hex.EncodeToString(sha[:]),
		"xxh3":     fmt.Sprintf("%016x", xxh3.Hash(content)),
	}).Info("Destruction report rendered")

	objectName := fmt.Sprintf("destruction-report-%s-%s.xlsx", listUuid, time.Now().UTC().Format("20060102"))
	if s.cfg.S3Enabled {
		return s.upload(ctx, objectName, content)
	}
	location := filepath.Join(os.TempDir(), objectName)
	if err := os.WriteFile(location, content, 0600); err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}
	return location, nil
}

func (s *reportServiceImpl) upload(ctx context.Context, objectName string, content []byte) (string, error) {
	parsed, err := url.Parse(s.cfg.S3Url)
	if err != nil {
		return "", fmt.Errorf("invalid s3 url: %w", err)
	}
	minioClient, err := minio.New(parsed.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(s.cfg.S3Username, s.cfg.S3Password, ""),
		Secure: strings.HasPrefix(s.cfg.S3Url, "https"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create s3 client: %w", err)
	}
	_, err = minioClient.PutObject(ctx, s.cfg.BucketName, objectName,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return s.cfg.BucketName + "/" + objectName, nil
}

// reportEnricher resolves the selection-list class of a destroyed zaak from
// its resultaattype. A failed lookup never blocks the report; the cell stays
// empty. Lookups are memoised, many zaken share a resultaattype.
type reportEnricher struct {
	catalogi      *client.CatalogiClient
	selectielijst *client.SelectielijstClient
	classes       map[string][2]string
}

func newReportEnricher(pool client.ClientPool) *reportEnricher {
	enricher := &reportEnricher{classes: map[string][2]string{}}
	if pool == nil {
		return enricher
	}
	if catalogiBase, err := pool.ClientForFamily(view.ApiFamilyCatalogi); err == nil {
		enricher.catalogi = client.NewCatalogiClient(catalogiBase)
	}
	if selectielijstBase, err := pool.ClientForFamily(view.ApiFamilySelectielijst); err == nil {
		enricher.selectielijst = client.NewSelectielijstClient(selectielijstBase)
	}
	return enricher
}

func (e *reportEnricher) retentionClass(ctx context.Context, resultaattypeUrl string) (string, string) {
	if resultaattypeUrl == "" || e.catalogi == nil || e.selectielijst == nil {
		return "", ""
	}
	if cached, ok := e.classes[resultaattypeUrl]; ok {
		return cached[0], cached[1]
	}
	klasse, bewaartermijn := e.resolve(ctx, resultaattypeUrl)
	e.classes[resultaattypeUrl] = [2]string{klasse, bewaartermijn}
	return klasse, bewaartermijn
}

func (e *reportEnricher) resolve(ctx context.Context, resultaattypeUrl string) (string, string) {
	resultaattype, err := e.catalogi.GetResultaattype(ctx, resultaattypeUrl)
	if err != nil {
		log.Debugf("Failed to resolve resultaattype %s for report: %v", resultaattypeUrl, err)
		return "", ""
	}
	if resultaattype.SelectielijstKlasse == "" {
		return "", ""
	}
	resultaat, err := e.selectielijst.GetResultaat(ctx, resultaattype.SelectielijstKlasse)
	if err != nil {
		log.Debugf("Failed to resolve selectielijst class %s for report: %v", resultaattype.SelectielijstKlasse, err)
		return "", ""
	}
	return resultaat.VolledigNummer, resultaat.Bewaartermijn
}
