// Package history implements the analysis result model and the bounded,
// newest-first history log that mirrors completed analyses into durable storage.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeLayout renders entry timestamps like a US-locale toLocaleString.
const DefaultTimeLayout = "1/2/2006, 3:04:05 PM"

// Label is the veracity verdict assigned by the classification service.
type Label string

const (
	LabelFake Label = "FAKE"
	LabelReal Label = "REAL"
)

// Valid reports whether l is one of the known verdicts.
func (l Label) Valid() bool {
	return l == LabelFake || l == LabelReal
}

// AnalysisResult is one classification outcome as returned by the service.
// Probability is the confidence in Label; InputText is the text the service
// echoed back.
type AnalysisResult struct {
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
	InputText   string  `json:"input_text"`
}

// Percent returns the confidence rounded to a whole percentage.
func (r AnalysisResult) Percent() int {
	return percent(r.Probability)
}

// EntryID is the stable list key of a history entry.
type EntryID string

// NewEntryID returns a time-ordered identifier.
func NewEntryID() EntryID {
	return EntryID(uuid.Must(uuid.NewV7()).String())
}

// UnmarshalJSON accepts both string ids and the numeric millisecond ids
// written by earlier clients.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = EntryID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode entry id: %w", err)
	}
	*id = EntryID(n.String())
	return nil
}

// Entry is a persisted record of one completed analysis.
// Entries are never mutated after creation.
type Entry struct {
	ID          EntryID `json:"id"`
	Label       Label   `json:"label"`
	Probability float64 `json:"probability"`
	Text        string  `json:"text"`
	Time        string  `json:"time"`
}

// NewEntry snapshots result into an entry stamped with now rendered in layout.
func NewEntry(result AnalysisResult, now time.Time, layout string) Entry {
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return Entry{
		ID:          NewEntryID(),
		Label:       result.Label,
		Probability: result.Probability,
		Text:        result.InputText,
		Time:        now.Format(layout),
	}
}

// Percent returns the confidence rounded to a whole percentage.
func (e Entry) Percent() int {
	return percent(e.Probability)
}

func percent(p float64) int {
	return int(math.Round(p * 100))
}
