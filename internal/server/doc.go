// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server wires and runs the vault's transport servers.
//
// It starts the enabled HTTP and gRPC servers, waits for a stop signal and
// shuts every transport down gracefully.
package server
