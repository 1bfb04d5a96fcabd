// Package archive drives the external 7-Zip compatible archiver: it lists
// archive contents, extracts a single entry and packs a single file.
package archive

import (
	"bytes"
	"context"
	"os/exec"

	"romselect/internal/errors"
	"romselect/internal/log"
	"romselect/pkg/types"
)

// Operations reported in ToolError
const (
	OpLookup  = "lookup"
	OpList    = "list"
	OpExtract = "extract"
	OpCreate  = "create"
)

// exitCommandNotFound is what a shell reports when it cannot run the binary.
const exitCommandNotFound = 127

// Tool runs archiver commands using the 7z command line conventions.
type Tool struct {
	binary string
	path   string
}

// New resolves binary in PATH. A missing archiver is an environment error.
func New(binary string) (*Tool, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, errors.NewToolError("cannot find "+binary+" in path", OpLookup, errors.ToolNotFound, err)
	}
	return &Tool{binary: binary, path: path}, nil
}

// Path returns the resolved executable path
func (t *Tool) Path() string {
	return t.path
}

// List returns the entries of archive in listing order.
func (t *Tool) List(ctx context.Context, archive string) ([]types.Entry, error) {
	stdout, _, err := t.run(ctx, OpList, "l", "-slt", "--", archive)
	if err != nil {
		return nil, err
	}
	return ParseListing(stdout), nil
}

// Extract writes the single entry name from archive into dir, keeping any
// directory components of the entry.
func (t *Tool) Extract(ctx context.Context, archive, dir, name string) error {
	_, _, err := t.run(ctx, OpExtract, "x", "-y", "-o"+dir, "--", archive, name)
	return err
}

// Create packs source into a new archive at target. The archive type
// follows the target extension.
func (t *Tool) Create(ctx context.Context, target, source string) error {
	_, _, err := t.run(ctx, OpCreate, "a", "-y", "--", target, source)
	return err
}

func (t *Tool) run(ctx context.Context, op string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, t.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.LogWithFields(log.F("operation", op), log.F("args", args)).WithContext(ctx).Debug("Running archiver")

	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), nil
	}

	kind := errors.ToolFailed
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
		if code == exitCommandNotFound {
			kind = errors.ToolNotFound
		}
	}

	toolErr := errors.NewToolError("archiver failed", op, kind, err).
		WithExitCode(code).
		WithOutput(stdout.String(), stderr.String())
	return stdout.String(), stderr.String(), toolErr
}
