// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// ClientConfig is the subset of [StructuredConfig] the client uses.
type ClientConfig struct {
	App     ClientApp
	Adapter Adapter
	Storage ClientStorage
	Vault   Vault
	Workers Workers
}

// ClientApp holds client logging settings.
type ClientApp struct {
	LogLevel string
	LogFile  string
}

// ClientStorage holds the local cache settings.
type ClientStorage struct {
	Cache Cache
}

// GetClientConfig loads the client configuration from defaults, environment
// and jsonPath (or CONFIG when jsonPath is empty), then validates it.
func GetClientConfig(jsonPath string) (*ClientConfig, error) {
	b := newConfigBuilder().withDefaults().withEnv()
	if jsonPath != "" {
		b = b.withJSONPath(jsonPath)
	} else {
		b = b.withJSON()
	}

	cfg, err := b.build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := newClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

func newClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
			LogFile:  cfg.App.LogFile,
		},
		Adapter: cfg.Adapter,
		Storage: ClientStorage{Cache: cfg.Storage.Cache},
		Vault:   cfg.Vault,
		Workers: cfg.Workers,
	}
}
