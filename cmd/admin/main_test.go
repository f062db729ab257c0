package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAdmin(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAdminCommands(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", filepath.Join(t.TempDir(), "admin.db"))

	out, err := runAdmin(t, "groups", "create", "cats", "Cats", "-d", "about cats")
	require.NoError(t, err)
	assert.Contains(t, out, "created group cats")

	_, err = runAdmin(t, "groups", "create", "cats", "Cats again")
	assert.Error(t, err)

	_, err = runAdmin(t, "groups", "create", "admin", "Reserved")
	assert.Error(t, err)

	out, err = runAdmin(t, "groups", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "cats")

	out, err = runAdmin(t, "groups", "delete", "cats")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted group cats")

	_, err = runAdmin(t, "users", "promote", "nobody")
	assert.Error(t, err)

	_, err = runAdmin(t, "groups", "create")
	assert.Error(t, err)
}
