package usecase

// recordIndex maps (destination table id, source record id) to the
// destination row id created for it. It is owned by a single import run:
// written during the primary pass, read-only during link resolution, and
// discarded with the run. It is deliberately never persisted — row ids
// from a prior aborted run may not reflect the current destination state.
type recordIndex struct {
	rows map[indexKey]int
}

type indexKey struct {
	tableID  int
	recordID string
}

func newRecordIndex() *recordIndex {
	return &recordIndex{rows: make(map[indexKey]int)}
}

func (ix *recordIndex) put(tableID int, recordID string, rowID int) {
	ix.rows[indexKey{tableID: tableID, recordID: recordID}] = rowID
}

func (ix *recordIndex) get(tableID int, recordID string) (int, bool) {
	rowID, ok := ix.rows[indexKey{tableID: tableID, recordID: recordID}]
	return rowID, ok
}

func (ix *recordIndex) len() int {
	return len(ix.rows)
}
