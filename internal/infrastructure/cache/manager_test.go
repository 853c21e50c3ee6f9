package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cardforge/og-render/internal/core/ports"
)

func newTestManager(t *testing.T, capacity int, ttl time.Duration) *Manager {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	m, err := NewManager(Options{Capacity: capacity, TTL: ttl, Dir: t.TempDir()}, logger)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestNewManagerRejectsBadOptions(t *testing.T) {
	_, err := NewManager(Options{Capacity: 0, TTL: time.Hour, Dir: t.TempDir()}, nil)
	require.Error(t, err)

	_, err = NewManager(Options{Capacity: 1, TTL: 0, Dir: t.TempDir()}, nil)
	require.Error(t, err)
}

func TestGetMissWhenEmpty(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	_, _, ok := m.Get(context.Background(), "absent")
	require.False(t, ok)
}

func TestPutImmediatelyVisibleInMemory(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	m.Put(context.Background(), "k1", []byte("img"))

	data, tier, ok := m.Get(context.Background(), "k1")
	require.True(t, ok)
	require.Equal(t, ports.CacheTierMemory, tier)
	require.Equal(t, []byte("img"), data)

	m.writes.Wait()
	_, err := os.Stat(m.disk.path("k1"))
	require.NoError(t, err)
}

func TestTTLBoundary(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	base := time.Now()
	m.now = func() time.Time { return base }

	m.Put(context.Background(), "k1", []byte("img"))
	m.writes.Wait()

	m.now = func() time.Time { return base.Add(time.Hour - time.Second) }
	_, tier, ok := m.Get(context.Background(), "k1")
	require.True(t, ok)
	require.Equal(t, ports.CacheTierMemory, tier)

	m.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	_, _, ok = m.Get(context.Background(), "k1")
	require.False(t, ok)

	// Lazy expiry removed the entry from both tiers.
	require.Empty(t, m.memory.entries)
	_, err := os.Stat(m.disk.path("k1"))
	require.True(t, os.IsNotExist(err))
}

func TestCapacityBoundEvictsOldestFirst(t *testing.T) {
	m := newTestManager(t, 3, time.Hour)
	base := time.Now()
	keys := []string{"k1", "k2", "k3", "k4", "k5"}
	for i, key := range keys {
		tick := base.Add(time.Duration(i) * time.Second)
		m.now = func() time.Time { return tick }
		m.Put(context.Background(), key, []byte(key))
	}

	require.Len(t, m.memory.entries, 3)
	for _, key := range []string{"k1", "k2"} {
		_, ok := m.memory.get(key)
		require.False(t, ok, "oldest key %q should have been evicted", key)
	}
	for _, key := range []string{"k3", "k4", "k5"} {
		_, ok := m.memory.get(key)
		require.True(t, ok, "newest key %q should have survived", key)
	}
}

func TestPromotionRepopulatesMemoryWithoutSecondDiskRead(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	m.Put(context.Background(), "k1", []byte("img"))
	m.writes.Wait()

	// Simulate a restart: the memory tier is gone, the disk tier survives.
	m.mu.Lock()
	m.memory.clear()
	m.mu.Unlock()

	data, tier, ok := m.Get(context.Background(), "k1")
	require.True(t, ok)
	require.Equal(t, ports.CacheTierDisk, tier)
	require.Equal(t, []byte("img"), data)

	// Removing the file proves the next hit is served from memory alone.
	require.NoError(t, os.Remove(m.disk.path("k1")))

	data, tier, ok = m.Get(context.Background(), "k1")
	require.True(t, ok)
	require.Equal(t, ports.CacheTierMemory, tier)
	require.Equal(t, []byte("img"), data)
}

func TestPromotionResetsEntryAge(t *testing.T) {
	m := newTestManager(t, 2, time.Hour)
	base := time.Now()

	m.now = func() time.Time { return base }
	m.Put(context.Background(), "cold", []byte("c"))
	m.writes.Wait()

	// Disk-only entry promoted later re-enters as the newest entry.
	m.mu.Lock()
	m.memory.clear()
	m.mu.Unlock()

	m.now = func() time.Time { return base.Add(10 * time.Second) }
	_, tier, ok := m.Get(context.Background(), "cold")
	require.True(t, ok)
	require.Equal(t, ports.CacheTierDisk, tier)

	m.now = func() time.Time { return base.Add(11 * time.Second) }
	m.Put(context.Background(), "warm1", []byte("w"))
	m.now = func() time.Time { return base.Add(12 * time.Second) }
	m.Put(context.Background(), "warm2", []byte("w"))

	// Capacity 2: "cold" was promoted at +10s, warm1 at +11s, warm2 at +12s,
	// so the promoted entry outlived nothing but the oldest insert.
	_, ok = m.memory.get("cold")
	require.False(t, ok)
	_, ok = m.memory.get("warm1")
	require.True(t, ok)
	_, ok = m.memory.get("warm2")
	require.True(t, ok)
}

func TestEvictExpiredSweepsBothTiers(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	base := time.Now()
	m.now = func() time.Time { return base }

	m.Put(context.Background(), "old", []byte("o"))
	m.writes.Wait()

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	m.Put(context.Background(), "fresh", []byte("f"))
	m.writes.Wait()

	// Disk age is judged from file mtimes, so pin both files relative to
	// the fake clock: "old" well past the TTL, "fresh" current.
	stale := base.Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(m.disk.path("old"), stale, stale))
	current := base.Add(2 * time.Hour)
	require.NoError(t, os.Chtimes(m.disk.path("fresh"), current, current))

	memory, disk := m.EvictExpired(context.Background())
	require.Equal(t, 1, memory)
	require.Equal(t, 1, disk)

	_, _, ok := m.Get(context.Background(), "fresh")
	require.True(t, ok)
}

func TestInvalidateIsIdempotent(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)

	res, err := m.Invalidate(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, res.Memory)
	require.False(t, res.Disk)

	m.Put(context.Background(), "k1", []byte("img"))
	m.writes.Wait()

	res, err = m.Invalidate(context.Background(), "k1")
	require.NoError(t, err)
	require.True(t, res.Memory)
	require.True(t, res.Disk)

	res, err = m.Invalidate(context.Background(), "k1")
	require.NoError(t, err)
	require.False(t, res.Memory)
	require.False(t, res.Disk)

	_, _, ok := m.Get(context.Background(), "k1")
	require.False(t, ok)
}

func TestInvalidateAllReportsPerTierCounts(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	m.Put(context.Background(), "k1", []byte("a"))
	m.Put(context.Background(), "k2", []byte("b"))
	m.writes.Wait()

	memory, disk, err := m.InvalidateAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, memory)
	require.Equal(t, 2, disk)

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.MemoryEntries)
	require.Zero(t, stats.DiskEntries)
}

func TestStatsListsKeys(t *testing.T) {
	m := newTestManager(t, 5, time.Hour)
	m.Put(context.Background(), "aaa", []byte("a"))
	m.Put(context.Background(), "bbb", []byte("b"))
	m.writes.Wait()

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.MemoryEntries)
	require.Equal(t, 5, stats.MemoryCapacity)
	require.Equal(t, []string{"aaa", "bbb"}, stats.MemoryKeys)
	require.Equal(t, 2, stats.DiskEntries)
	require.ElementsMatch(t, []string{"aaa", "bbb"}, stats.DiskKeys)
}

func TestPutReplacesExistingEntry(t *testing.T) {
	m := newTestManager(t, 10, time.Hour)
	m.Put(context.Background(), "k1", []byte("v1"))
	m.Put(context.Background(), "k1", []byte("v2"))
	m.writes.Wait()

	data, _, ok := m.Get(context.Background(), "k1")
	require.True(t, ok)
	require.Equal(t, []byte("v2"), data)

	stats, err := m.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.MemoryEntries)
	require.Equal(t, 1, stats.DiskEntries)
}
