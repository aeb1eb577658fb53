// internal/casoffinder/request.go
package casoffinder

import (
	"fmt"
	"io"
	"strings"

	"grnafinder/internal/candidate"
)

// Request carries the run parameters serialized into the engine's batch
// query file.
type Request struct {
	GenomePath  string
	GuideLength int
	Mismatches  int
	Bulge       int
}

// WriteRequest serializes the batch query: the genome path, the pattern
// line (all-N guide plus NGG, with DNA and RNA bulge sizes), then one line
// per candidate carrying its site, mismatch tolerance, and id. The engine
// echoes the id back in its output, which is how hits are reconciled.
func WriteRequest(w io.Writer, req Request, cands []candidate.Candidate) error {
	if _, err := fmt.Fprintln(w, req.GenomePath); err != nil {
		return err
	}
	pattern := strings.Repeat("N", req.GuideLength) + "NGG"
	if _, err := fmt.Fprintf(w, "%s %d %d\n", pattern, req.Bulge, req.Bulge); err != nil {
		return err
	}
	for _, c := range cands {
		if _, err := fmt.Fprintf(w, "%s %d %s\n", c.Site(), req.Mismatches, c.ID); err != nil {
			return err
		}
	}
	return nil
}
