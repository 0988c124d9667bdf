// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config loads, merges and validates configuration for the vault
// server and client.
//
// Sources are applied in order, later non-zero fields overriding earlier ones:
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags (server only; the client's flags belong to cobra)
//  4. JSON config file (path from CONFIG or -c/-config)
//
// Entry points are [GetStructuredConfig] for the server and [GetClientConfig]
// for the client.
package config
