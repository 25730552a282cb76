package gen

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation represents a file system operation that can be validated and
// executed.
//
// Validate checks if the operation would succeed without executing it.
// Some operations have side effects during validation (e.g., creating
// parent directories). force=true skips conflict checks.
//
// Execute performs the actual operation, only after Validate succeeds.
//
// Description returns a human-readable description for output
// (e.g., "Create apps/store/models.py (312 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp creates a new file with content.
//
// Validation creates parent directories (idempotent) and rejects an
// existing target unless force is set. Empty content is allowed, nil
// content is not.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if !force {
		if _, err := os.Stat(op.Path); err == nil {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	}

	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// WriteFileIfNotExistsOp creates a file only when it is absent, so user
// modifications to an already generated file are preserved.
type WriteFileIfNotExistsOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
}

func (op *WriteFileIfNotExistsOp) Validate(ctx context.Context, force bool) error {
	dir := filepath.Dir(op.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	return nil
}

func (op *WriteFileIfNotExistsOp) Execute(ctx context.Context) error {
	if _, err := os.Stat(op.Path); err == nil {
		return nil // already there, keep it
	}
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(op.Path, op.Content, op.Mode)
}

func (op *WriteFileIfNotExistsOp) Description() string {
	return fmt.Sprintf("Create %s if missing (%d bytes)", op.Path, len(op.Content))
}

// MkdirOp creates a directory tree. Used for packages that exist only as
// folders (e.g., migrations/ before the first migration).
type MkdirOp struct {
	Path string
}

func (op *MkdirOp) Validate(ctx context.Context, force bool) error {
	if st, err := os.Stat(op.Path); err == nil && !st.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", op.Path)
	}
	return nil
}

func (op *MkdirOp) Execute(ctx context.Context) error {
	return os.MkdirAll(op.Path, 0755)
}

func (op *MkdirOp) Description() string {
	return fmt.Sprintf("Create directory %s", op.Path)
}
