// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui implements the interactive vault browser.
//
// The program has three screens. The unlock screen takes the master secret
// through a masked input, the list screen shows entry metadata, and the
// detail screen reveals, copies or deletes a single entry. Whenever the
// session locks, manually or on timeout, every revealed plaintext is dropped
// and the program returns to the unlock screen.
package tui
