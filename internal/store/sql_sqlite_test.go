// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_sqlitePath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"vault-cache.db", "vault-cache.db"},
		{"file:vault-cache.db?_foreign_keys=on", "vault-cache.db"},
		{"file:/var/lib/vault/cache.db", "/var/lib/vault/cache.db"},
		{":memory:", ""},
		{"file::memory:?cache=shared", ""},
		{"file:test.db?mode=memory", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(tt.dsn))
		})
	}
}

func Test_createCacheDirIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	require.NoError(t, createCacheDirIfNotExists("file:"+filepath.Join(dir, "vault.db")+"?_foreign_keys=on"))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
