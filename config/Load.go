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
	"fmt"
	"strings"

	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/spf13/viper"
)

// LoadConfig reads archiefbeheer.yaml (path optional) with ARCHIEFBEHEER_*
// environment overrides and validates the result.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("archiefbeheer")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("archiefbeheer")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := utils.ValidateObject(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("technical.listenAddress", ":8080")
	v.SetDefault("technical.logLevel", "info")
	v.SetDefault("destruction.workerConcurrency", 4)
	v.SetDefault("destruction.taskSoftTimeLimitSeconds", 900)
	v.SetDefault("destruction.claimLeaseSeconds", 300)
	v.SetDefault("destruction.recoverySweepSchedule", "*/10 * * * *")
	v.SetDefault("destruction.gatewayTimeoutSeconds", 30)
}
