package service

import "sync"

// documentLocks hands out one exclusive mutex per document. Mutation
// requests on the same document serialize on it; requests on different
// documents proceed independently. Locks are never discarded; the map is
// bounded by the number of documents touched by this process.
type documentLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *documentLocks) get(fileID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[fileID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[fileID] = lock
	}
	return lock
}
