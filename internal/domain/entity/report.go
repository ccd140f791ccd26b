package entity

import "time"

// UnresolvedLink records one linked source record id that could not be
// resolved through the record index: its table was never mapped, or its
// own import failed. Non-fatal; the link is dropped from the write.
type UnresolvedLink struct {
	DestinationTableID int
	DestinationRowID   int
	FieldID            int
	SourceRecordID     string
	LinkedRecordID     string
}

// RecordError is one per-record failure tallied under the skip policy.
type RecordError struct {
	SourceTableID      string
	DestinationTableID int
	RecordID           string
	Err                error
}

// ImportReport carries the statistics of one import run. It is built up
// during the run and returned to the caller; nothing in it is persisted.
type ImportReport struct {
	RunID   string
	DryRun  bool
	Created int
	Updated int
	Failed  int

	Unresolved []UnresolvedLink
	Errors     []RecordError

	StartedAt time.Time
	Duration  time.Duration
}
