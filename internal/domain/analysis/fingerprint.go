package analysis

import (
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/Strob0t/repodoc/internal/domain/repo"
)

// Fingerprint hashes the ordered path list of a snapshot. Two snapshots with
// the same fingerprint produce the same analysis.
func Fingerprint(snap *repo.Snapshot) string {
	h := xxh3.New()
	for _, p := range snap.Paths() {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
