package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/inofd/internal/event"
)

// HashFunc returns a content digest for path.
type HashFunc func(path string) (string, error)

// HashFile computes the BLAKE3 hash of the file at path, returning the hex-encoded digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// confirmContent hashes every reflink match and compares it with the
// target. Matches that cannot be hashed or differ are downgraded to Unknown.
func (s *searcher) confirmContent(targetPath string, records []MatchRecord, hash HashFunc) {
	want, err := hash(targetPath)
	if err != nil {
		slog.Warn("cannot hash target, skipping verification", "path", targetPath, "error", err)
		return
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range records {
		if records[i].Relation != Reflink {
			continue
		}
		g.Go(func() error {
			got, err := hash(records[i].Path)
			if err == nil && got == want {
				return nil
			}
			s.stats.AddVerifyFailed(1)
			slog.Warn("reflink content does not match target", "path", records[i].Path, "error", err)
			emitEvent(s.events, event.Event{Type: event.VerifyFailed, Path: records[i].Path, Error: err})
			records[i].Relation = Unknown
			return nil
		})
	}
	_ = g.Wait()
}
