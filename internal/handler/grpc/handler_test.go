// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

func check(t *testing.T, h *Handler, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	t.Helper()
	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func TestHandler_StartsNotServing(t *testing.T) {
	h := NewHandler(logger.Nop())

	got, err := check(t, h, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, got)
}

func TestHandler_SetServing(t *testing.T) {
	h := NewHandler(logger.Nop())

	h.SetServing(true)
	got, err := check(t, h, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, got)

	h.SetServing(false)
	got, err = check(t, h, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, got)
}

func TestHandler_ShutdownSticks(t *testing.T) {
	h := NewHandler(logger.Nop())
	h.SetServing(true)

	h.Shutdown()
	h.SetServing(true)

	got, err := check(t, h, ServiceName)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, got)
}

func TestHandler_UnknownService(t *testing.T) {
	h := NewHandler(logger.Nop())

	_, err := check(t, h, "other")
	assert.Equal(t, codes.NotFound, status.Code(err))
}
