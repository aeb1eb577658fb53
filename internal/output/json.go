// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"grnafinder/internal/classify"
)

// Report is the JSON report envelope.
type Report struct {
	Candidates int                `json:"candidates"`
	Kept       int                `json:"kept"`
	Survivors  []classify.Verdict `json:"survivors"`
}

// WriteJSON writes the kept verdicts as indented JSON.
func WriteJSON(w io.Writer, verdicts []classify.Verdict) error {
	rep := Report{Candidates: len(verdicts), Survivors: []classify.Verdict{}}
	for _, v := range verdicts {
		if v.Kept {
			rep.Kept++
			rep.Survivors = append(rep.Survivors, v)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
