package lru

import "sync"

// numberLocks hands out one mutex per RFC number. A mutex lives only while
// someone holds or waits for it.
type numberLocks struct {
	mu    sync.Mutex
	locks map[int]*numberLock
}

type numberLock struct {
	sync.Mutex
	refs int
}

func newNumberLocks() *numberLocks {
	return &numberLocks{locks: make(map[int]*numberLock)}
}

// lock acquires the mutex for number and returns its unlock function.
func (l *numberLocks) lock(number int) func() {
	l.mu.Lock()
	m, ok := l.locks[number]
	if !ok {
		m = &numberLock{}
		l.locks[number] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		l.mu.Lock()
		if m.refs--; m.refs == 0 {
			delete(l.locks, number)
		}
		l.mu.Unlock()
	}
}

// len reports how many numbers currently have a mutex.
func (l *numberLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
