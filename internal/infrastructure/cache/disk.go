package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	diskEntryExt   = ".png"
	diskTempPrefix = ".tmp-"
)

// diskTier persists one file per key under a single directory. The file
// modification time is the entry's creation timestamp for TTL purposes.
// Writes are atomic (temp file + rename) so a reader can never observe a
// partially written entry.
type diskTier struct {
	dir string
}

func newDiskTier(dir string) (*diskTier, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create disk tier directory %s: %w", dir, err)
	}
	return &diskTier{dir: dir}, nil
}

// sanitizeKey keeps the filename filesystem-safe. Derived keys are hex and
// pass through unchanged; this guards direct invalidation of raw input.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}

func (t *diskTier) path(key string) string {
	return filepath.Join(t.dir, sanitizeKey(key)+diskEntryExt)
}

// read returns the entry bytes if present and younger than ttl. An expired
// file is removed as a side effect of the lookup.
func (t *diskTier) read(key string, now time.Time, ttl time.Duration) ([]byte, bool, error) {
	path := t.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("stat disk entry: %w", err)
	}
	if now.Sub(info.ModTime()) >= ttl {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("remove expired disk entry: %w", err)
		}
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read disk entry: %w", err)
	}
	return data, true, nil
}

func (t *diskTier) write(key string, data []byte) error {
	path := t.path(key)
	tmp := path + diskTempPrefix + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write disk entry temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish disk entry: %w", err)
	}
	return nil
}

func (t *diskTier) remove(key string) (bool, error) {
	err := os.Remove(t.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("remove disk entry: %w", err)
	}
	return true, nil
}

// listFiles returns directory entries that are published cache files,
// skipping in-progress temp files.
func (t *diskTier) listFiles() ([]os.DirEntry, error) {
	dirents, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, fmt.Errorf("list disk tier: %w", err)
	}
	files := make([]os.DirEntry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() || !strings.HasSuffix(d.Name(), diskEntryExt) || strings.Contains(d.Name(), diskTempPrefix) {
			continue
		}
		files = append(files, d)
	}
	return files, nil
}

func (t *diskTier) keys() ([]string, error) {
	files, err := t.listFiles()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, strings.TrimSuffix(f.Name(), diskEntryExt))
	}
	return keys, nil
}

func (t *diskTier) evictExpired(now time.Time, ttl time.Duration) (int, error) {
	files, err := t.listFiles()
	if err != nil {
		return 0, err
	}
	evicted := 0
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) >= ttl {
			if err := os.Remove(filepath.Join(t.dir, f.Name())); err == nil || os.IsNotExist(err) {
				evicted++
			}
		}
	}
	return evicted, nil
}

func (t *diskTier) removeAll() (int, error) {
	files, err := t.listFiles()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		if err := os.Remove(filepath.Join(t.dir, f.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
