package services

import "sync"

// UserLockRegistry hands out one mutex per user ID. Every service that
// mutates a user's wallet takes that user's lock for the whole
// read-modify-write, so a deposit landing mid-trade cannot overwrite the
// trade's balances. Entries are never evicted; the map is bounded by the
// number of users seen by this process.
type UserLockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLockRegistry creates an empty registry. One instance is shared
// by every service that writes wallet balances.
func NewUserLockRegistry() *UserLockRegistry {
	return &UserLockRegistry{locks: make(map[string]*sync.Mutex)}
}

// ForUser returns the mutex serializing wallet mutations for userID,
// creating it on first use.
func (r *UserLockRegistry) ForUser(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}
