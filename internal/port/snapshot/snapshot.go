// Package snapshot defines the port for retrieving a repository's file tree.
package snapshot

import (
	"context"

	"github.com/Strob0t/repodoc/internal/domain/repo"
)

// Fetcher retrieves the file listing of a repository's default branch at its
// latest commit. Implementations never fetch file contents.
type Fetcher interface {
	Fetch(ctx context.Context, ref repo.Ref) (*repo.Snapshot, error)
}
