// SPDX-License-Identifier: MPL-2.0

package sandbox

import "sync"

// keyedLocks provides per-cache-key mutual exclusion so two workers
// provisioning the same key cannot interleave filesystem writes.
// Lock instances live for the process lifetime; the number of distinct
// keys is bounded by the matrixfile.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// get returns the lock for key, creating it on first use.
func (l *keyedLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}
