// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server defines the lifecycle of the transport servers managed by this
// package. RunServer blocks until shutdown is requested.
type Server interface {
	RunServer()
	Shutdown()
}
