package organize

import (
	"context"
	"io"

	"romselect/internal/archive"
	"romselect/pkg/types"
)

// Archiver is the subset of archiver operations the install pipeline needs.
// This allows for dependency injection in tests.
type Archiver interface {
	// List returns the entries of an archive in listing order
	List(ctx context.Context, archivePath string) ([]types.Entry, error)

	// Extract unpacks a single entry into dir
	Extract(ctx context.Context, archivePath, dir, name string) error

	// Create packs source into a new archive at target
	Create(ctx context.Context, target, source string) error
}

// Installer defines the operations for placing a chosen entry into the library
type Installer interface {
	// SetOutput sets where progress messages are written
	SetOutput(w io.Writer)

	// Install extracts entry from the archive, repacks it and copies the
	// new archive into the platform directory for its extension
	Install(ctx context.Context, archivePath string, entry types.Entry) (types.InstallResult, error)
}

// Ensure the archiver tool and Engine implement the interfaces
var (
	_ Archiver  = (*archive.Tool)(nil)
	_ Installer = (*Engine)(nil)
)
