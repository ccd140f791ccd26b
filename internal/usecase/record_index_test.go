package usecase

import "testing"

func TestRecordIndex(t *testing.T) {
	idx := newRecordIndex()

	if _, ok := idx.get(101, "recA"); ok {
		t.Errorf("empty index should miss")
	}

	idx.put(101, "recA", 1)
	idx.put(202, "recA", 2) // same source record, different destination table

	if rowID, ok := idx.get(101, "recA"); !ok || rowID != 1 {
		t.Errorf("get(101, recA) = (%d, %v), want (1, true)", rowID, ok)
	}
	if rowID, ok := idx.get(202, "recA"); !ok || rowID != 2 {
		t.Errorf("get(202, recA) = (%d, %v), want (2, true)", rowID, ok)
	}
	if _, ok := idx.get(303, "recA"); ok {
		t.Errorf("unknown table should miss")
	}
	if idx.len() != 2 {
		t.Errorf("len() = %d, want 2", idx.len())
	}
}
