package result

import (
	"encoding/json"

	"locale-qa/internal/paths"
)

// Verdict is the outcome a filter or observer assigns to a finding.
type Verdict string

const (
	VerdictError   Verdict = "error"
	VerdictWarning Verdict = "warning"
	VerdictIgnore  Verdict = "ignore"
	VerdictReport  Verdict = "report"
)

// Filter decides how a finding for a file (and optionally one of its
// entities) should be treated. An empty entity means the whole file.
type Filter func(file paths.File, entity string) Verdict

// Event is one detail row attached to a file in the result tree.
// Kind "count" carries the entity count of a missing file; every
// other kind carries a message.
type Event struct {
	Kind    string
	Message string
	Count   int
}

func (e Event) MarshalJSON() ([]byte, error) {
	if e.Kind == "count" {
		return json.Marshal(map[string]int{"count": e.Count})
	}
	return json.Marshal(map[string]string{e.Kind: e.Message})
}
