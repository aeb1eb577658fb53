// internal/casoffinder/parse.go
package casoffinder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"grnafinder/internal/candidate"
)

// ErrMalformedSearchOutput means an engine record could not be reconciled
// with a known candidate or violates the fixed-length alignment contract.
// That is an engine/version incompatibility, not a recoverable condition.
var ErrMalformedSearchOutput = errors.New("malformed search output")

// Hit is one genomic near-match site for a candidate. Sequence is the
// aligned protospacer portion (site PAM split off) in PAM-relative
// orientation, uppercased; its length always equals the candidate's guide
// length. Mismatches is the engine's aggregate count. Immutable after
// parsing.
type Hit struct {
	CandidateID string `json:"candidate_id"`
	Chromosome  string `json:"chromosome"`
	Position    int    `json:"position"`
	Sequence    string `json:"sequence"`
	SitePAM     string `json:"site_pam"`
	Strand      string `json:"strand"`
	Mismatches  int    `json:"reported_mm"`
}

// ParseHits reads the engine's whitespace-delimited output: one record per
// near-match site, `id chrom position aligned strand mismatches`, with
// optional trailing bulge columns and '#'-prefixed header lines. The
// aligned sequence includes the site PAM and marks mismatched positions in
// lowercase; both are normalized away here, since zone counts are
// recomputed downstream.
func ParseHits(r io.Reader, byID map[string]candidate.Candidate) ([]Hit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var hits []Hit
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 6 {
			return nil, fmt.Errorf("%w: line %d: %d fields, need >= 6", ErrMalformedSearchOutput, ln, len(f))
		}
		id := f[0]
		cand, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown candidate id %q", ErrMalformedSearchOutput, ln, id)
		}
		pos, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad position %q", ErrMalformedSearchOutput, ln, f[2])
		}
		aligned := strings.ToUpper(f[3])
		if len(aligned) != len(cand.Sequence)+candidate.PAMLen {
			return nil, fmt.Errorf("%w: line %d: aligned length %d != %d for %q",
				ErrMalformedSearchOutput, ln, len(aligned), len(cand.Sequence)+candidate.PAMLen, id)
		}
		mm, err := strconv.Atoi(f[5])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad mismatch count %q", ErrMalformedSearchOutput, ln, f[5])
		}
		hits = append(hits, Hit{
			CandidateID: id,
			Chromosome:  f[1],
			Position:    pos,
			Sequence:    aligned[:len(cand.Sequence)],
			SitePAM:     aligned[len(cand.Sequence):],
			Strand:      f[4],
			Mismatches:  mm,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("search output scan: %w", err)
	}
	return hits, nil
}

// GroupByCandidate buckets hits by candidate id, preserving record order
// within each bucket.
func GroupByCandidate(hits []Hit) map[string][]Hit {
	out := make(map[string][]Hit)
	for _, h := range hits {
		out[h.CandidateID] = append(out[h.CandidateID], h)
	}
	return out
}
