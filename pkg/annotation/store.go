package annotation

import "sort"

//Store maps a frame number to the records drawn on that frame.
//It only holds frames that have at least one record, and never two records with the same object id on one frame.
//Store is not safe for concurrent use, the session that owns it serializes access.
type Store struct {
	frames map[int][]Record
}

//NewStore returns an empty store
func NewStore() *Store {
	return &Store{frames: make(map[int][]Record)}
}

//NewStoreFromRecords indexes given records by their frame number
func NewStoreFromRecords(records []Record) *Store {
	s := NewStore()
	for _, r := range records {
		s.Upsert(r.FrameNum, r)
	}
	return s
}

//Get returns a copy of the records of given frame (empty if none)
func (s *Store) Get(frameNumber int) []Record {
	current := s.frames[frameNumber]
	res := make([]Record, len(current))
	for i, r := range current {
		res[i] = r.Clone()
	}
	return res
}

//Lookup returns the record with given object id on given frame
func (s *Store) Lookup(frameNumber, objectID int) (Record, bool) {
	for _, r := range s.frames[frameNumber] {
		if r.ObjectID == objectID {
			return r.Clone(), true
		}
	}
	return Record{}, false
}

//Upsert replaces the record with the same object id on given frame, or appends it
func (s *Store) Upsert(frameNumber int, r Record) {
	r.FrameNum = frameNumber
	current := s.frames[frameNumber]
	for i := range current {
		if current[i].ObjectID == r.ObjectID {
			current[i] = r.Clone()
			return
		}
	}
	s.frames[frameNumber] = append(current, r.Clone())
}

//RemoveByObjectID removes the record with given object id from given frame and returns it
func (s *Store) RemoveByObjectID(frameNumber, objectID int) (Record, bool) {
	current := s.frames[frameNumber]
	for i := range current {
		if current[i].ObjectID == objectID {
			removed := current[i]
			rest := make([]Record, 0, len(current)-1)
			rest = append(rest, current[:i]...)
			rest = append(rest, current[i+1:]...)
			if len(rest) == 0 {
				delete(s.frames, frameNumber)
			} else {
				s.frames[frameNumber] = rest
			}
			return removed, true
		}
	}
	return Record{}, false
}

//Move takes a record off one frame and puts it on another
func (s *Store) Move(fromFrame, toFrame, objectID int) bool {
	r, ok := s.RemoveByObjectID(fromFrame, objectID)
	if !ok {
		return false
	}
	s.Upsert(toFrame, r)
	return true
}

//Frames returns the annotated frame numbers in ascending order
func (s *Store) Frames() []int {
	res := make([]int, 0, len(s.frames))
	for f := range s.frames {
		res = append(res, f)
	}
	sort.Ints(res)
	return res
}

//All returns every record, frames ascending and insertion order inside a frame
func (s *Store) All() []Record {
	res := make([]Record, 0, s.Len())
	for _, f := range s.Frames() {
		for _, r := range s.frames[f] {
			res = append(res, r.Clone())
		}
	}
	return res
}

//Len returns the number of records across all frames
func (s *Store) Len() int {
	n := 0
	for _, recs := range s.frames {
		n += len(recs)
	}
	return n
}

//MaxObjectID returns the highest object id in the store, -1 when empty
func (s *Store) MaxObjectID() int {
	max := -1
	for _, recs := range s.frames {
		for _, r := range recs {
			if r.ObjectID > max {
				max = r.ObjectID
			}
		}
	}
	return max
}

//Clone returns a deep copy that shares nothing with s
func (s *Store) Clone() *Store {
	c := NewStore()
	for f, recs := range s.frames {
		cp := make([]Record, len(recs))
		for i, r := range recs {
			cp[i] = r.Clone()
		}
		c.frames[f] = cp
	}
	return c
}

//Update applies fn to the record with given object id on given frame, in place
func (s *Store) Update(frameNumber, objectID int, fn func(r *Record)) bool {
	current := s.frames[frameNumber]
	for i := range current {
		if current[i].ObjectID == objectID {
			fn(&current[i])
			return true
		}
	}
	return false
}

//Ledger keeps the records deleted during a session, until the backend confirmed their deletion
type Ledger struct {
	records []Record
}

//Append stores a snapshot of a deleted record
func (l *Ledger) Append(r Record) {
	l.records = append(l.records, r.Clone())
}

//Records returns a copy of the deleted records, oldest first
func (l *Ledger) Records() []Record {
	res := make([]Record, len(l.records))
	for i, r := range l.records {
		res[i] = r.Clone()
	}
	return res
}

//Len returns the number of deleted records
func (l *Ledger) Len() int {
	return len(l.records)
}

//DropFirst forgets the n oldest deletions (the ones a successful submission already reported)
func (l *Ledger) DropFirst(n int) {
	if n >= len(l.records) {
		l.records = nil
		return
	}
	if n > 0 {
		l.records = append([]Record(nil), l.records[n:]...)
	}
}
