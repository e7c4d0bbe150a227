package media

import "sync"

// keyedMutex serializes callers that share a logical key while leaving
// unrelated keys fully concurrent. Entries are reference counted and removed
// once the last holder unlocks, so the map never grows with dead keys.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*keyedLock{}}
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if ok {
		lock.refs--
		if lock.refs <= 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		lock.mu.Unlock()
	}
}
