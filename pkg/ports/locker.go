package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker coordinates draft access between replicas sharing one
// snapshot store. The session manager wraps every mutating operation in a
// per-draft lock.
type DistributedLocker interface {
	// Lock blocks until the lock for key is acquired or ctx is done. The
	// returned UnlockFunc must be called to release it; ttl bounds how long
	// a crashed holder can wedge the key.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
