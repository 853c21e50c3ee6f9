package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cardforge/og-render/internal/core/ports"
)

// Options configures a Manager.
type Options struct {
	// Capacity bounds the memory tier entry count. The disk tier is only
	// TTL-bounded.
	Capacity int
	// TTL applies to both tiers.
	TTL time.Duration
	// Dir is the disk tier directory.
	Dir string
	// SweepInterval is the period of the background expiry sweep.
	SweepInterval time.Duration
}

// Manager implements ports.TieredCache over a bounded in-memory tier and a
// file-per-entry disk tier. The mutex guards the memory tier; disk I/O runs
// outside the lock and relies on atomic per-file writes.
type Manager struct {
	mu     sync.Mutex
	memory *memoryTier
	disk   *diskTier

	ttl           time.Duration
	sweepInterval time.Duration
	logger        *logrus.Logger

	// now is swapped in tests to exercise TTL boundaries.
	now func() time.Time

	writes  sync.WaitGroup
	stopped chan struct{}
	stop    sync.Once
}

func NewManager(opts Options, logger *logrus.Logger) (*Manager, error) {
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", opts.Capacity)
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive, got %s", opts.TTL)
	}
	disk, err := newDiskTier(opts.Dir)
	if err != nil {
		return nil, err
	}
	sweep := opts.SweepInterval
	if sweep <= 0 {
		sweep = time.Minute
	}
	return &Manager{
		memory:        newMemoryTier(opts.Capacity),
		disk:          disk,
		ttl:           opts.TTL,
		sweepInterval: sweep,
		logger:        logger,
		now:           time.Now,
		stopped:       make(chan struct{}),
	}, nil
}

// Get implements ports.TieredCache. Expiry is checked lazily on every lookup
// so correctness does not depend on the sweep schedule.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, ports.CacheTier, bool) {
	now := m.now()

	m.mu.Lock()
	if e, ok := m.memory.get(key); ok {
		if now.Sub(e.createdAt) < m.ttl {
			data := e.data
			m.mu.Unlock()
			cacheLookups.WithLabelValues("hit_memory").Inc()
			return data, ports.CacheTierMemory, true
		}
		m.memory.delete(key)
		cacheEvictions.WithLabelValues("expired").Inc()
	}
	m.mu.Unlock()

	data, ok, err := m.disk.read(key, now, m.ttl)
	if err != nil {
		if m.logger != nil {
			m.logger.WithField("key", key).WithError(err).Warn("disk tier read failed; treating as miss")
		}
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, "", false
	}
	if !ok {
		cacheLookups.WithLabelValues("miss").Inc()
		return nil, "", false
	}

	// Promote with a fresh timestamp: a hot disk entry re-enters the memory
	// tier as the newest entry, pushing out colder ones over time.
	m.mu.Lock()
	m.memory.put(key, data, m.now())
	if evicted := m.memory.evictOverCapacity(); evicted > 0 {
		cacheEvictions.WithLabelValues("capacity").Add(float64(evicted))
	}
	m.mu.Unlock()

	cacheLookups.WithLabelValues("hit_disk").Inc()
	return data, ports.CacheTierDisk, true
}

// Put implements ports.TieredCache. The memory tier is updated synchronously;
// the disk write happens in the background and a failure leaves the memory
// tier authoritative.
func (m *Manager) Put(ctx context.Context, key string, data []byte) {
	m.mu.Lock()
	m.memory.put(key, data, m.now())
	if evicted := m.memory.evictOverCapacity(); evicted > 0 {
		cacheEvictions.WithLabelValues("capacity").Add(float64(evicted))
	}
	m.mu.Unlock()

	m.writes.Add(1)
	go func() {
		defer m.writes.Done()
		if err := m.disk.write(key, data); err != nil {
			diskWriteFailures.Inc()
			if m.logger != nil {
				m.logger.WithField("key", key).WithError(err).Error("disk tier write failed; entry remains memory-only")
			}
		}
	}()
}

// EvictExpired implements ports.TieredCache.
func (m *Manager) EvictExpired(ctx context.Context) (int, int) {
	now := m.now()

	m.mu.Lock()
	memory := m.memory.evictExpired(now, m.ttl)
	m.mu.Unlock()

	disk, err := m.disk.evictExpired(now, m.ttl)
	if err != nil && m.logger != nil {
		m.logger.WithError(err).Warn("disk tier expiry sweep failed")
	}
	if memory+disk > 0 {
		cacheEvictions.WithLabelValues("expired").Add(float64(memory + disk))
	}
	return memory, disk
}

// Invalidate implements ports.TieredCache. Removing an absent key is a no-op.
func (m *Manager) Invalidate(ctx context.Context, key string) (ports.InvalidateResult, error) {
	m.mu.Lock()
	res := ports.InvalidateResult{Memory: m.memory.delete(key)}
	m.mu.Unlock()

	removed, err := m.disk.remove(key)
	if err != nil {
		return res, err
	}
	res.Disk = removed
	if res.Memory || res.Disk {
		cacheEvictions.WithLabelValues("invalidated").Inc()
	}
	return res, nil
}

// InvalidateAll implements ports.TieredCache.
func (m *Manager) InvalidateAll(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	memory := m.memory.clear()
	m.mu.Unlock()

	disk, err := m.disk.removeAll()
	if memory+disk > 0 {
		cacheEvictions.WithLabelValues("invalidated").Add(float64(memory + disk))
	}
	return memory, disk, err
}

// Stats implements ports.TieredCache.
func (m *Manager) Stats(ctx context.Context) (*ports.CacheStats, error) {
	m.mu.Lock()
	memKeys := m.memory.keys()
	capacity := m.memory.capacity
	m.mu.Unlock()

	diskKeys, err := m.disk.keys()
	if err != nil {
		return nil, err
	}
	return &ports.CacheStats{
		MemoryEntries:  len(memKeys),
		MemoryCapacity: capacity,
		MemoryKeys:     memKeys,
		DiskEntries:    len(diskKeys),
		DiskKeys:       diskKeys,
	}, nil
}

// StartSweeper runs the periodic expiry sweep until Close is called.
func (m *Manager) StartSweeper() {
	go func() {
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				memory, disk := m.EvictExpired(context.Background())
				if (memory > 0 || disk > 0) && m.logger != nil {
					m.logger.WithFields(logrus.Fields{"memory": memory, "disk": disk}).Debug("expiry sweep removed entries")
				}
			case <-m.stopped:
				return
			}
		}
	}()
}

// Close stops the sweeper and waits for pending disk writes to settle.
func (m *Manager) Close() {
	m.stop.Do(func() { close(m.stopped) })
	m.writes.Wait()
}
