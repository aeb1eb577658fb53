// internal/candidate/candidate.go
package candidate

import (
	"bytes"
	"errors"
	"fmt"

	"grnafinder/internal/dna"
	"grnafinder/internal/fasta"
)

// PAMLen is the length of the protospacer-adjacent motif (N-G-G).
const PAMLen = 3

// ErrInsufficientSequenceLength means the target cannot contain a single
// guide-plus-PAM window of the requested length.
var ErrInsufficientSequenceLength = errors.New("target sequence shorter than guide length + PAM")

// Candidate is one fixed-length protospacer immediately upstream of an NGG
// PAM. Sequence and PAM are always in PAM-relative orientation: for
// reverse-strand sites they are the reverse complement of the genomic
// window, so downstream zone math is strand-agnostic. Immutable after
// generation.
type Candidate struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
	PAM      string `json:"pam"`
	SourceID string `json:"source_id"`
	Start    int    `json:"start"` // 0-based forward-strand offset of the protospacer's leftmost base
	Strand   string `json:"strand"`
}

// Site returns the protospacer with its PAM, as submitted to the search
// engine.
func (c Candidate) Site() string { return c.Sequence + c.PAM }

// Generate scans one target record on both strands and emits every
// candidate whose adjacent trinucleotide matches N-G-G. Windows containing
// any non-ACGT symbol are skipped. A reverse-strand site whose reverse
// complement was already emitted from the forward strand is suppressed so
// the same physical site is not queried twice. Zero candidates is a valid
// empty result.
func Generate(rec fasta.Record, length int) ([]Candidate, error) {
	if length < 1 {
		return nil, fmt.Errorf("guide length must be >= 1, got %d", length)
	}
	site := length + PAMLen
	seq := bytes.ToUpper(rec.Seq)
	if len(seq) < site {
		return nil, fmt.Errorf("%w: record %q is %d nt, need >= %d",
			ErrInsufficientSequenceLength, rec.ID, len(seq), site)
	}

	var out []Candidate
	forward := make(map[string]struct{})
	for i := 0; i+site <= len(seq); i++ {
		win := seq[i : i+site]
		if !validSite(win, length) {
			continue
		}
		out = append(out, Candidate{
			Sequence: string(win[:length]),
			PAM:      string(win[length:]),
			SourceID: rec.ID,
			Start:    i,
			Strand:   "+",
		})
		forward[string(win)] = struct{}{}
	}

	rc := dna.RevComp(seq)
	for i := 0; i+site <= len(rc); i++ {
		win := rc[i : i+site]
		if !validSite(win, length) {
			continue
		}
		if _, dup := forward[string(dna.RevComp(win))]; dup {
			continue
		}
		out = append(out, Candidate{
			Sequence: string(win[:length]),
			PAM:      string(win[length:]),
			SourceID: rec.ID,
			Start:    len(seq) - i - length,
			Strand:   "-",
		})
	}
	return out, nil
}

// validSite requires every base (guide and PAM) to be unambiguous ACGT and
// the PAM to end in GG; the first PAM position is free.
func validSite(win []byte, length int) bool {
	for _, b := range win {
		if !dna.IsExact(b) {
			return false
		}
	}
	return win[length+1] == 'G' && win[length+2] == 'G'
}
