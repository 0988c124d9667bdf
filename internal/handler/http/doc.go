// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the vault server.
//
// It wires chi routes, request handlers and middleware. Tracing, access
// logging, JWT authentication and audit recording happen here before
// requests reach the service layer. Handlers only ever see encrypted
// bundles.
package http
