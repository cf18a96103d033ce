package session

import "sync"

// lockTable hands out one mutex per session id. The table mutex only guards
// the map itself; callers block on the per-session mutex outside it, so a
// slow write on one session never stalls another session's callers.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the session's mutex and returns it for the caller to unlock.
func (t *lockTable) acquire(id string) *sync.Mutex {
	t.mu.Lock()
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l
}

// drop forgets a session's mutex. Only safe once the session can no longer
// be written: late holders of the old mutex re-validate state and reject.
func (t *lockTable) drop(id string) {
	t.mu.Lock()
	delete(t.locks, id)
	t.mu.Unlock()
}

// size reports how many sessions currently hold a lock entry.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
