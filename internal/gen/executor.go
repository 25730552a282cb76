package gen

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior.
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // where to write output (defaults to os.Stdout)
}

// Execute runs operations with validation.
//
// All operations are validated before the first one executes, so a plan
// that cannot complete fails before anything touches the project tree.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	// Phase 2: execute or report
	for _, op := range ops {
		if opts.DryRun {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
		} else {
			if err := op.Execute(ctx); err != nil {
				return fmt.Errorf("execution failed: %w", err)
			}
			fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
		}
	}

	return nil
}
