// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the JSON file layout.
type StructuredJSONConfig struct {
	App struct {
		LogLevel      string   `json:"log_level"`
		LogFile       string   `json:"log_file"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		BcryptCost    int      `json:"bcrypt_cost"`
	} `json:"app"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db"`
		Cache struct {
			DSN string `json:"dsn"`
		} `json:"cache"`
	} `json:"storage"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AuthRateLimit  int      `json:"auth_rate_limit"`
		AuthRateWindow Duration `json:"auth_rate_window"`
	} `json:"server"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter"`

	Vault struct {
		KDFIterations       int      `json:"kdf_iterations"`
		AutoLockTimeout     Duration `json:"auto_lock_timeout"`
		ClipboardClearDelay Duration `json:"clipboard_clear_delay"`
	} `json:"vault"`

	Workers struct {
		CacheRefreshInterval Duration `json:"cache_refresh_interval"`
		EntryExpiryInterval  Duration `json:"entry_expiry_interval"`
	} `json:"workers"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel:      jsonCfg.App.LogLevel,
			LogFile:       jsonCfg.App.LogFile,
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			BcryptCost:    jsonCfg.App.BcryptCost,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Cache: Cache{DSN: jsonCfg.Storage.Cache.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AuthRateLimit:  jsonCfg.Server.AuthRateLimit,
			AuthRateWindow: time.Duration(jsonCfg.Server.AuthRateWindow),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Vault: Vault{
			KDFIterations:       jsonCfg.Vault.KDFIterations,
			AutoLockTimeout:     time.Duration(jsonCfg.Vault.AutoLockTimeout),
			ClipboardClearDelay: time.Duration(jsonCfg.Vault.ClipboardClearDelay),
		},
		Workers: Workers{
			CacheRefreshInterval: time.Duration(jsonCfg.Workers.CacheRefreshInterval),
			EntryExpiryInterval:  time.Duration(jsonCfg.Workers.EntryExpiryInterval),
		},
	}, nil
}

// Duration is a time.Duration that unmarshals from strings like "1h" or "30s",
// or from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
