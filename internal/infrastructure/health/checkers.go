package health

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cardforge/og-render/internal/core/ports"
)

// diskCacheHealthChecker probes that the disk tier directory is writable.
type diskCacheHealthChecker struct{ dir string }

func (d *diskCacheHealthChecker) Name() string { return "disk-cache" }

func (d *diskCacheHealthChecker) Check(ctx context.Context) error {
	probe := filepath.Join(d.dir, ".healthprobe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// NewDiskCacheHealthChecker creates a health checker for the disk tier.
func NewDiskCacheHealthChecker(dir string) ports.HealthChecker {
	return &diskCacheHealthChecker{dir: dir}
}
