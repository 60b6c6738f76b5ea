package repocache

// Stats is a point-in-time snapshot of cache effectiveness. Singletons
// that have not been constructed yet report zero values.
type Stats struct {
	ContentHits     int64
	ContentMisses   int64
	ContentSize     int64
	ContentCapacity int64

	HandlesReused int64
	HandlesOpened int64
}

// Stats aggregates counters from both singletons without triggering their
// construction.
func (r *Registry) Stats() Stats {
	var st Stats

	r.content.mu.Lock()
	content := r.content.handle
	r.content.mu.Unlock()

	if content != nil {
		st.ContentHits, st.ContentMisses = content.Stats()
		st.ContentSize = content.Size()
		st.ContentCapacity = content.Capacity()
	}

	r.handles.mu.Lock()
	pool := r.handles.handle
	r.handles.mu.Unlock()

	if pool != nil {
		st.HandlesReused, st.HandlesOpened = pool.Stats()
	}

	return st
}
