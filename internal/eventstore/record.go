package eventstore

import (
	"encoding/json"
	"time"
)

// Record is one row of release history. Version, Stage and ExitCode are
// stored in their own columns so runs can be queried without decoding the
// payload.
type Record struct {
	ID        int64
	RunID     string
	Type      string
	Version   string
	Stage     string
	ExitCode  *int // nil for events that carry no exit code
	Timestamp time.Time
	Payload   []byte
}

// Decode unmarshals the JSON payload into v.
func (r Record) Decode(v any) error {
	return json.Unmarshal(r.Payload, v)
}
