package engine

// RecordsMap is the canonical date-indexed completion log. Invariant: at
// most one record per (date, taskID) pair; Upsert replaces, never appends.
type RecordsMap map[Date][]Record

// Clone deep-copies the map so callers can hold a snapshot.
func (m RecordsMap) Clone() RecordsMap {
	out := make(RecordsMap, len(m))
	for d, recs := range m {
		cp := make([]Record, len(recs))
		copy(cp, recs)
		out[d] = cp
	}
	return out
}

// LastCompletion points at the most recent successful upsert. It feeds
// transient UI feedback only and is not part of the invariant set.
type LastCompletion struct {
	Date   Date
	TaskID string
}

// RecordStore holds the in-memory completion log every other component
// reads. It is not safe for concurrent use; the owning session serializes
// access.
type RecordStore struct {
	records RecordsMap
	last    *LastCompletion
}

func NewRecordStore() *RecordStore {
	return &RecordStore{records: RecordsMap{}}
}

// Upsert writes rec for (date, rec.TaskID), replacing any prior entry for
// the same task on that day.
func (s *RecordStore) Upsert(date Date, rec Record) {
	day := s.records[date]
	kept := day[:0]
	for _, r := range day {
		if r.TaskID != rec.TaskID {
			kept = append(kept, r)
		}
	}
	s.records[date] = append(kept, rec)
	s.last = &LastCompletion{Date: date, TaskID: rec.TaskID}
}

// Remove deletes the record for (date, taskID) if present.
func (s *RecordStore) Remove(date Date, taskID string) bool {
	day := s.records[date]
	kept := day[:0]
	removed := false
	for _, r := range day {
		if r.TaskID == taskID {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		delete(s.records, date)
	} else {
		s.records[date] = kept
	}
	return removed
}

// RemoveTask drops every record referencing taskID, across all days.
// Used by the task-delete cascade.
func (s *RecordStore) RemoveTask(taskID string) int {
	dropped := 0
	for date, day := range s.records {
		kept := day[:0]
		for _, r := range day {
			if r.TaskID == taskID {
				dropped++
				continue
			}
			kept = append(kept, r)
		}
		if len(kept) == 0 {
			delete(s.records, date)
		} else {
			s.records[date] = kept
		}
	}
	return dropped
}

// On returns a copy of the records logged on the given day.
func (s *RecordStore) On(date Date) []Record {
	day := s.records[date]
	if len(day) == 0 {
		return nil
	}
	out := make([]Record, len(day))
	copy(out, day)
	return out
}

// Get returns the record for (date, taskID), if any.
func (s *RecordStore) Get(date Date, taskID string) (Record, bool) {
	for _, r := range s.records[date] {
		if r.TaskID == taskID {
			return r, true
		}
	}
	return Record{}, false
}

// Map exposes the live projection for the pure compute functions. Callers
// must not mutate it.
func (s *RecordStore) Map() RecordsMap { return s.records }

// TotalEntries counts every record in the log.
func (s *RecordStore) TotalEntries() int {
	n := 0
	for _, day := range s.records {
		n += len(day)
	}
	return n
}

// Replace swaps the whole projection, used by hydration and archive
// restore. The last-completion pointer resets: it is session-transient.
func (s *RecordStore) Replace(m RecordsMap) {
	if m == nil {
		m = RecordsMap{}
	}
	s.records = m
	s.last = nil
}

// Last returns the most recent upsert pointer, or nil before any write.
func (s *RecordStore) Last() *LastCompletion {
	if s.last == nil {
		return nil
	}
	cp := *s.last
	return &cp
}
