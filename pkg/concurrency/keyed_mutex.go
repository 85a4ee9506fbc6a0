// Package concurrency 키 단위 동기화 도구를 제공합니다.
package concurrency

import "sync"

// KeyedMutex 키마다 독립적인 뮤텍스를 제공합니다.
//
// 서로 다른 키는 병렬로 진행되며, 대기자가 없는 키의 뮤텍스는 참조 카운트가 0이 되는 즉시 정리됩니다.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
	pool  sync.Pool
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedEntry),
		pool: sync.Pool{
			New: func() any { return &keyedEntry{} },
		},
	}
}

// Len 락을 보유 중이거나 대기 중인 키의 개수
func (km *KeyedMutex) Len() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.locks)
}

func (km *KeyedMutex) acquire(key string) *keyedEntry {
	e, ok := km.locks[key]
	if !ok {
		e = km.pool.Get().(*keyedEntry)
		km.locks[key] = e
	}
	e.refs++
	return e
}

func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	e := km.acquire(key)
	km.mu.Unlock()

	e.mu.Lock()
}

// TryLock 다른 고루틴이 키를 보유 중이면 기다리지 않고 false를 반환합니다.
// false인 경우 Unlock을 호출해서는 안 됩니다.
func (km *KeyedMutex) TryLock(key string) bool {
	km.mu.Lock()
	defer km.mu.Unlock()

	if e, ok := km.locks[key]; ok {
		if !e.mu.TryLock() {
			return false
		}
		e.refs++
		return true
	}

	e := km.acquire(key)
	e.mu.Lock()
	return true
}

// Unlock 잠기지 않은 키를 해제하면 패닉이 발생합니다.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()

	e, ok := km.locks[key]
	if !ok {
		panic("concurrency: 잠기지 않은 키의 잠금 해제 시도: " + key)
	}

	e.mu.Unlock()

	e.refs--
	if e.refs <= 0 {
		delete(km.locks, key)
		e.refs = 0
		km.pool.Put(e)
	}
}

// Do key를 잠근 상태로 fn을 실행합니다.
func (km *KeyedMutex) Do(key string, fn func()) {
	km.Lock(key)
	defer km.Unlock(key)

	fn()
}
