package database

import "sync"

// journeyLocks hands out one mutex per (bus id, travel date) key so that the
// seat-disjointness check and the booking insert run as a single step for a
// journey. Advisory only: the unique transaction_id index still backs the
// cross-instance uniqueness contract. Entries are reference counted and
// dropped once the last holder releases, so the map stays bounded by the
// number of in-flight inserts.
type journeyLocks struct {
	mu    sync.Mutex
	locks map[string]*journeyLock
}

type journeyLock struct {
	sync.Mutex
	refs int
}

func newJourneyLocks() *journeyLocks {
	return &journeyLocks{locks: make(map[string]*journeyLock)}
}

// acquire locks the mutex for key and returns its release func.
func (j *journeyLocks) acquire(key string) func() {
	j.mu.Lock()
	lock, exists := j.locks[key]
	if !exists {
		lock = &journeyLock{}
		j.locks[key] = lock
	}
	lock.refs++
	j.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		j.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(j.locks, key)
		}
		j.mu.Unlock()
	}
}
