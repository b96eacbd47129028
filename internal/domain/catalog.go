package domain

// CatalogSnapshot is an immutable view of the whole catalog, keyed by
// normalized (brand, name). Reloads build a fresh snapshot and swap it in
// atomically; a snapshot is never mutated after construction, so in-flight
// lookups always see a consistent catalog.
type CatalogSnapshot struct {
	entries []CatalogEntry
	byKey   map[string]int
}

// NewCatalogSnapshot builds a snapshot from grouped catalog entries.
// When two entries normalize to the same (brand, name) key, the first wins.
func NewCatalogSnapshot(entries []CatalogEntry) *CatalogSnapshot {
	byKey := make(map[string]int, len(entries))
	for i, e := range entries {
		key := CatalogKey(e.Brand, e.Name)
		if _, exists := byKey[key]; !exists {
			byKey[key] = i
		}
	}
	return &CatalogSnapshot{entries: entries, byKey: byKey}
}

// Lookup returns the entry for the normalized (brand, name) pair.
func (s *CatalogSnapshot) Lookup(brand, name string) (*CatalogEntry, bool) {
	idx, ok := s.byKey[CatalogKey(brand, name)]
	if !ok {
		return nil, false
	}
	return &s.entries[idx], true
}

// Entries returns all catalog entries. Callers must not mutate them.
func (s *CatalogSnapshot) Entries() []CatalogEntry {
	return s.entries
}

// Len returns the number of products in the snapshot.
func (s *CatalogSnapshot) Len() int {
	return len(s.entries)
}
