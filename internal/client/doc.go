// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vault client runtime.
//
// It wires the local cache, the server adapter, the OS keyring and the
// client services into an [App], runs the background workers next to the
// terminal UI, and exposes the whole thing as a cobra command tree.
package client
