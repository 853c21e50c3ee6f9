package ports

import "context"

// HealthChecker probes one dependency of the render pipeline, such as
// writability of the disk cache tier. Check returns nil when the
// dependency is usable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
