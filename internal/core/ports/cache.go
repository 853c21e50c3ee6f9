package ports

import (
	"context"
)

// CacheTier identifies which layer of the tiered cache served an entry.
type CacheTier string

const (
	CacheTierMemory CacheTier = "memory"
	CacheTierDisk   CacheTier = "disk"
)

// CacheStats is a read-only snapshot of both tiers.
type CacheStats struct {
	MemoryEntries  int      `json:"memory_entries"`
	MemoryCapacity int      `json:"memory_capacity"`
	MemoryKeys     []string `json:"memory_keys"`
	DiskEntries    int      `json:"disk_entries"`
	DiskKeys       []string `json:"disk_keys"`
}

// InvalidateResult reports per-tier removal of a single key.
type InvalidateResult struct {
	Memory bool `json:"memory"`
	Disk   bool `json:"disk"`
}

// TieredCache is the cache manager contract: a bounded in-memory tier in
// front of an unbounded persistent disk tier, both TTL-governed.
// Implementations MUST be safe for concurrent use.
type TieredCache interface {
	// Get checks memory first, then disk. A disk hit is promoted into
	// memory. Expired entries found on either tier are removed as a side
	// effect and reported as a miss.
	Get(ctx context.Context, key string) (data []byte, tier CacheTier, ok bool)
	// Put makes data immediately visible to Get via the memory tier and
	// schedules the disk write. Disk failures are logged, never returned.
	Put(ctx context.Context, key string, data []byte)
	// EvictExpired removes every entry older than the TTL from both tiers
	// and returns per-tier removal counts.
	EvictExpired(ctx context.Context) (memory, disk int)
	// Invalidate removes one key from both tiers. Absence is a no-op.
	Invalidate(ctx context.Context, key string) (InvalidateResult, error)
	// InvalidateAll clears both tiers and returns per-tier removal counts.
	InvalidateAll(ctx context.Context) (memory, disk int, err error)
	// Stats returns tier sizes and key listings without mutating state.
	Stats(ctx context.Context) (*CacheStats, error)
}
