package core

import "context"

// LockKey identifies one test of one job.
type LockKey struct {
	Job  string
	Test TestIdentity
}

// KeyedLocker provides mutual exclusion per key.
type KeyedLocker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases the key
	// and is safe to call more than once.
	Lock(ctx context.Context, key LockKey) (unlock func(), err error)
}
