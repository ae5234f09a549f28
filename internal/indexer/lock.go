package indexer

import "sync/atomic"

// IndexLock guards a build without blocking: a second build attempt while
// one is running fails immediately instead of queueing behind it.
type IndexLock struct {
	state atomic.Int32 // 0 = free, 1 = building
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Only the holder may call it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}

// Held reports whether a build is running
func (l *IndexLock) Held() bool {
	return l.state.Load() == 1
}
