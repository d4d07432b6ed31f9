package core

import (
	"fmt"
	"log/slog"
)

// RowStore holds the canonical row order of one table instance.
//
// The sequence is only ever replaced as a whole: Load swaps in new data and
// Reorder builds a fresh slice. A slice returned by Records is never mutated
// afterwards, so callers may hold it across a reorder.
type RowStore struct {
	records []Record
	index   map[int]int // id -> position in records
	logger  *slog.Logger
}

// NewRowStore creates an empty store. A nil logger uses slog.Default().
func NewRowStore(logger *slog.Logger) *RowStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowStore{
		index:  make(map[int]int),
		logger: logger,
	}
}

// Load replaces the sequence. Records whose id was already seen are dropped.
// Empty input leaves an empty store; the view renders its empty-state row.
// Returns the number of records kept.
func (s *RowStore) Load(records []Record) int {
	next := make([]Record, 0, len(records))
	index := make(map[int]int, len(records))

	for _, r := range records {
		if _, dup := index[r.ID]; dup {
			s.logger.Warn("dropping duplicate record id", "id", r.ID)
			continue
		}
		index[r.ID] = len(next)
		next = append(next, r)
	}

	s.records = next
	s.index = index
	return len(next)
}

// Reorder moves the record sourceID to the position currently held by
// targetID. Everything between shifts by one toward the vacated slot.
//
// Same ids are a no-op. An absent id leaves the store unchanged and returns
// ErrInvalidReorderTarget, which callers only log.
func (s *RowStore) Reorder(sourceID, targetID int) error {
	if sourceID == targetID {
		return nil
	}

	from, okFrom := s.index[sourceID]
	to, okTo := s.index[targetID]
	if !okFrom || !okTo {
		s.logger.Debug("reorder ignored", "source_id", sourceID, "target_id", targetID)
		return fmt.Errorf("reorder %d -> %d: %w", sourceID, targetID, ErrInvalidReorderTarget)
	}

	moved := s.records[from]
	next := make([]Record, len(s.records))
	copy(next, s.records)

	if from < to {
		copy(next[from:to], next[from+1:to+1])
	} else {
		copy(next[to+1:from+1], next[to:from])
	}
	next[to] = moved

	lo, hi := min(from, to), max(from, to)
	for i := lo; i <= hi; i++ {
		s.index[next[i].ID] = i
	}
	s.records = next
	return nil
}

// Delete is a placeholder for a backend delete. It reports success and
// leaves the store unchanged.
func (s *RowStore) Delete(id int) error {
	s.logger.Info("delete requested", "id", id)
	return nil
}

// Update is a placeholder for a backend update. It reports success and
// leaves the store unchanged.
func (s *RowStore) Update(id int, fields map[string]Value) error {
	s.logger.Info("update requested", "id", id, "fields", len(fields))
	return nil
}

// Records returns the current sequence. Treat it as read-only.
func (s *RowStore) Records() []Record {
	return s.records
}

// Len returns the number of records.
func (s *RowStore) Len() int {
	return len(s.records)
}

// Get returns the record with the given id.
func (s *RowStore) Get(id int) (Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// IndexOf returns the position of id, or -1 when absent.
func (s *RowStore) IndexOf(id int) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// IDs returns the ids in canonical order.
func (s *RowStore) IDs() []int {
	ids := make([]int, len(s.records))
	for i, r := range s.records {
		ids[i] = r.ID
	}
	return ids
}
