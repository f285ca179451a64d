package stripe

import (
	"sync"
)

// LockManager manages per-basket locks so that two requests working on the
// same basket never race on intent creation, while requests for different
// baskets proceed in parallel. The compare-and-set on the stored intent ID
// covers writers in other processes; this covers writers in this one.
type LockManager struct {
	locks sync.Map // map[string]*sync.Mutex
}

// NewLockManager creates a new lock manager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// LockBasket acquires the lock for the given basket ID.
// Returns a function that must be called to release the lock.
func (lm *LockManager) LockBasket(basketID string) func() {
	lockInterface, _ := lm.locks.LoadOrStore(basketID, &sync.Mutex{})
	lock, ok := lockInterface.(*sync.Mutex)
	if !ok {
		// only *sync.Mutex values are ever stored
		panic("unexpected type in lock manager")
	}

	lock.Lock()
	return func() {
		lock.Unlock()
	}
}

// CleanupLocks removes locks that are not currently held. Can be called
// periodically to keep abandoned baskets from leaking mutexes.
func (lm *LockManager) CleanupLocks() {
	lm.locks.Range(func(key, value any) bool {
		lock, ok := value.(*sync.Mutex)
		if !ok {
			return true
		}
		if lock.TryLock() {
			lock.Unlock()
			lm.locks.Delete(key)
		}
		return true
	})
}
