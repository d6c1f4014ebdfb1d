package services

import "sync"

// playerLocks serializes trades per player. The map only grows; a sandbox
// server's player population is small enough that entries are never evicted.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*sync.Mutex)}
}

// forPlayer returns the mutex owned by the given player, creating it on
// first use.
func (l *playerLocks) forPlayer(playerID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[playerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[playerID] = m
	}
	return m
}
