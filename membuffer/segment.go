package membuffer

import (
	"container/list"
	"sync"
)

// locker lets single-threaded callers opt out of locking entirely.
type locker interface {
	Lock()
	Unlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// segment is one partition of the cache budget with its own LRU index.
type segment struct {
	mu        locker
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
}

type entry struct {
	key        string
	value      []byte
	compressed bool
}

func newSegment(capacity int64, concurrent bool) *segment {
	var mu locker = nopLocker{}
	if concurrent {
		mu = &sync.Mutex{}
	}
	return &segment{
		mu:        mu,
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

func (s *segment) get(key string) (value []byte, compressed bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.items[key]
	if !ok {
		return nil, false, false
	}
	s.evictList.MoveToFront(ent)
	e := ent.Value.(*entry)
	return e.value, e.compressed, true
}

func (s *segment) set(key string, value []byte, compressed bool) {
	itemSize := int64(len(key) + len(value))

	// Oversized values would evict the whole segment for a single entry.
	if itemSize > s.capacity {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[key]; ok {
		e := ent.Value.(*entry)
		s.size += int64(len(value)) - int64(len(e.value))
		e.value = value
		e.compressed = compressed
		s.evictList.MoveToFront(ent)
		s.evict()
		return
	}

	ent := &entry{key: key, value: value, compressed: compressed}
	s.items[key] = s.evictList.PushFront(ent)
	s.size += itemSize
	s.evict()
}

func (s *segment) remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.items[key]; ok {
		s.removeElement(ent)
	}
}

func (s *segment) evict() {
	for s.size > s.capacity {
		ent := s.evictList.Back()
		if ent == nil {
			break
		}
		s.removeElement(ent)
	}
}

func (s *segment) removeElement(ent *list.Element) {
	s.evictList.Remove(ent)
	e := ent.Value.(*entry)
	delete(s.items, e.key)
	s.size -= int64(len(e.key) + len(e.value))
}

func (s *segment) sizeBytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}
