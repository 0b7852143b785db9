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

package config

import (
	"github.com/maykinmedia/archiefbeheer/view"
)

type Config struct {
	Database    DatabaseConfig
	Technical   TechnicalParameters
	Destruction DestructionConfig
	Features    FeatureFlags
	Report      ReportConfig
	Services    []ServiceConfig `validate:"dive"`
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Name     string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required" sensitive:"true"`
}

type TechnicalParameters struct {
	InstanceId    string
	ListenAddress string `validate:"required"`
	BasePath      string
	LogLevel      string
	LogFile       string
}

type DestructionConfig struct {
	WorkerConcurrency        int    `validate:"gt=0"`
	TaskSoftTimeLimitSeconds int    `validate:"gt=0"`
	ClaimLeaseSeconds        int    `validate:"gt=0"`
	RecoverySweepSchedule    string `validate:"required"`
	GatewayTimeoutSeconds    int    `validate:"gt=0"`
}

type FeatureFlags struct {
	RelatedCountDisabled bool
}

type ReportConfig struct {
	S3Enabled  bool
	S3Url      string
	S3Username string
	S3Password string `sensitive:"true"`
	BucketName string
}

type ServiceConfig struct {
	Slug         string         `validate:"required"`
	ApiFamily    view.ApiFamily `validate:"required"`
	BaseUrl      string         `validate:"required,url"`
	AuthType     view.AuthType  `validate:"required,oneof=zgw api_key none"`
	ClientId     string
	Secret       string `sensitive:"true"`
	ApiKeyHeader string
	ApiKey       string `sensitive:"true"`
}
