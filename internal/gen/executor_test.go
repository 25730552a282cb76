package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteWritesFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "apps", "store", "models.py")

	var buf bytes.Buffer
	err := Execute(context.Background(), []Operation{
		&WriteFileOp{Path: target, Content: []byte("from django.db import models\n"), Mode: 0o644},
	}, ExecuteOptions{Writer: &buf})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "from django.db import models\n", string(data))
	assert.Contains(t, buf.String(), "Create "+target)
}

func TestExecuteValidatesBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "manage.py")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))
	fresh := filepath.Join(dir, "urls.py")

	err := Execute(context.Background(), []Operation{
		&WriteFileOp{Path: fresh, Content: []byte("new"), Mode: 0o644},
		&WriteFileOp{Path: existing, Content: []byte("new"), Mode: 0o644},
	}, ExecuteOptions{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Validation failed before phase 2, so nothing was written.
	assert.NoFileExists(t, fresh)
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "old", string(data))
}

func TestExecuteForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "manage.py")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	err := Execute(context.Background(), []Operation{
		&WriteFileOp{Path: existing, Content: []byte("new"), Mode: 0o755},
	}, ExecuteOptions{Force: true, Writer: &bytes.Buffer{}})
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestExecuteDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "settings.py")

	var buf bytes.Buffer
	err := Execute(context.Background(), []Operation{
		&WriteFileOp{Path: target, Content: []byte("x"), Mode: 0o644},
	}, ExecuteOptions{DryRun: true, Writer: &buf})
	require.NoError(t, err)

	assert.NoFileExists(t, target)
	assert.Contains(t, buf.String(), "[DRY RUN]")
}

func TestWriteFileIfNotExistsOpKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "base.py")
	require.NoError(t, os.WriteFile(target, []byte("user edits"), 0o644))

	op := &WriteFileIfNotExistsOp{Path: target, Content: []byte("generated"), Mode: 0o644}
	require.NoError(t, op.Validate(context.Background(), false))
	require.NoError(t, op.Execute(context.Background()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "user edits", string(data))
}

func TestWriteFileOpRejectsNilContent(t *testing.T) {
	op := &WriteFileOp{Path: filepath.Join(t.TempDir(), "f"), Content: nil}
	assert.Error(t, op.Validate(context.Background(), false))
}
