package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("LOCAL_STORAGE_PATH", dir)
	t.Setenv("CREDENTIAL_STORE", "blob")
	t.Setenv("RETRY_ATTEMPTS", "1")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsertool_AddResetList(t *testing.T) {
	dir := setupStore(t)

	out, err := run(t, "add", "김 철수", "--password", "init", "--title", "대리")
	require.NoError(t, err)
	assert.Contains(t, out, "created 김철수 (user, 대리)")

	_, err = os.Stat(filepath.Join(dir, "user_db.json"))
	require.NoError(t, err)

	_, err = run(t, "add", "김철수", "--password", "init")
	assert.Error(t, err)

	out, err = run(t, "reset", "김철수", "--password", "next")
	require.NoError(t, err)
	assert.Contains(t, out, "reset 김철수")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "김철수")
	assert.Contains(t, out, "true")
}

func TestUsertool_Errors(t *testing.T) {
	setupStore(t)

	_, err := run(t, "add", "김철수")
	assert.Error(t, err, "password flag is required")

	_, err = run(t, "reset", "없는사람", "--password", "next")
	assert.Error(t, err)

	_, err = run(t, "add", "김철수", "--password", "1")
	assert.Error(t, err)
}
