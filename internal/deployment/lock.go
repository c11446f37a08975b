package deployment

import "sync"

// LockManager manages per-target deployment locks.
//
// The outer mutex protects the locks map; each target key gets its own
// mutex, so different targets deploy concurrently while one target runs
// at most one child at a time.
type LockManager struct {
	mu    sync.Mutex             // Protects the locks map
	locks map[string]*sync.Mutex // Per-target locks
}

// NewLockManager creates a new lock manager
func NewLockManager() *LockManager {
	return &LockManager{
		locks: make(map[string]*sync.Mutex),
	}
}

func (lm *LockManager) lockFor(key string) *sync.Mutex {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lock, exists := lm.locks[key]
	if !exists {
		lock = &sync.Mutex{}
		lm.locks[key] = lock
	}
	return lock
}

// Lock blocks until the lock for key is held.
// Waiters are not guaranteed to acquire it in arrival order.
func (lm *LockManager) Lock(key string) {
	lm.lockFor(key).Lock()
}

// Unlock releases the lock for key.
//
// It is safe to call this for a key that was never locked through this
// manager's map (no-op).
func (lm *LockManager) Unlock(key string) {
	lm.mu.Lock()
	lock := lm.locks[key]
	lm.mu.Unlock()

	if lock != nil {
		lock.Unlock()
	}
}
