package entity

import "time"

// IngestOutcomeOK marks a successful ingest in events and metrics.
const IngestOutcomeOK = "OK"

// IngestEvent is published once per ingested file.
type IngestEvent struct {
	EventID   string
	SessionID string
	DatasetID string
	FileName  string
	Format    string
	// Outcome is IngestOutcomeOK or the failure reason code.
	Outcome  string
	Rows     int
	Duration time.Duration
}
