package fsdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Entry is one item of a directory listing. Key is the absolute path,
// which stays stable across re-sorts of the containing sequence.
type Entry struct {
	Key     string
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

// statConcurrency bounds parallel Info calls; slow network filesystems
// are the reason this is not done serially.
const statConcurrency = 16

// List reads the entries of dir. Metadata is fetched with bounded
// concurrency; an entry whose stat fails is listed with zero metadata
// rather than sinking the whole listing.
func List(ctx context.Context, dir string, showHidden bool) ([]Entry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if !showHidden && strings.HasPrefix(de.Name(), ".") {
			continue
		}
		entries = append(entries, Entry{
			Key:   filepath.Join(dir, de.Name()),
			Name:  de.Name(),
			IsDir: de.IsDir(),
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)
	for i := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Lstat(entries[i].Key)
			if err != nil {
				return nil // listed without metadata
			}
			entries[i].Size = info.Size()
			entries[i].ModTime = info.ModTime()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Keys extracts the stable keys of entries in order.
func Keys(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Less returns a comparator for the given sort field. Directories always
// group before files; unknown fields fall back to name order.
func Less(sortBy string, desc bool) func(a, b Entry) bool {
	var cmp func(a, b Entry) bool
	switch sortBy {
	case "size":
		cmp = func(a, b Entry) bool {
			if a.Size != b.Size {
				return a.Size < b.Size
			}
			return a.Name < b.Name
		}
	case "modified":
		cmp = func(a, b Entry) bool {
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.Before(b.ModTime)
			}
			return a.Name < b.Name
		}
	default:
		cmp = func(a, b Entry) bool { return a.Name < b.Name }
	}
	return func(a, b Entry) bool {
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	}
}
