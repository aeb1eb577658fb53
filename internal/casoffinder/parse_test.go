package casoffinder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grnafinder/internal/candidate"
)

func knownCandidates() map[string]candidate.Candidate {
	return map[string]candidate.Candidate{
		"g1": {ID: "g1", Sequence: "GATCGATGTTGAATGCCGAT", PAM: "TGG"},
	}
}

func TestParseHits(t *testing.T) {
	in := "# id\tchrom\tposition\tdna\tstrand\tmismatches\n" +
		"g1\tchr2\t12345\tGATCGATGTTGAATGCCGATTGG\t+\t0\n" +
		"g1\tchr7\t999\tGATCGATGTTGAATGCCGAtAGG\t-\t1\n" +
		"\n"
	hits, err := ParseHits(strings.NewReader(in), knownCandidates())
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, Hit{
		CandidateID: "g1",
		Chromosome:  "chr2",
		Position:    12345,
		Sequence:    "GATCGATGTTGAATGCCGAT",
		SitePAM:     "TGG",
		Strand:      "+",
		Mismatches:  0,
	}, hits[0])

	// Lowercase mismatch marks are normalized; the site PAM is split off so
	// the aligned sequence length matches the guide length.
	assert.Equal(t, "GATCGATGTTGAATGCCGAT", hits[1].Sequence)
	assert.Equal(t, "AGG", hits[1].SitePAM)
	assert.Equal(t, 1, hits[1].Mismatches)
	assert.Equal(t, "-", hits[1].Strand)
}

func TestParseHitsBulgeColumns(t *testing.T) {
	// Bulge-enabled engine builds append extra columns; they are ignored.
	in := "g1\tchr1\t42\tGATCGATGTTGAATGCCGATTGG\t+\t2\tDNA\t1\n"
	hits, err := ParseHits(strings.NewReader(in), knownCandidates())
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Mismatches)
}

func TestParseHitsEmpty(t *testing.T) {
	hits, err := ParseHits(strings.NewReader("# header only\n"), knownCandidates())
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParseHitsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unknown candidate", "g9\tchr1\t1\tGATCGATGTTGAATGCCGATTGG\t+\t0"},
		{"short record", "g1\tchr1\t1"},
		{"bad position", "g1\tchr1\txyz\tGATCGATGTTGAATGCCGATTGG\t+\t0"},
		{"bad mismatch count", "g1\tchr1\t1\tGATCGATGTTGAATGCCGATTGG\t+\tq"},
		{"aligned length violation", "g1\tchr1\t1\tGATTGG\t+\t0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHits(strings.NewReader(tc.line+"\n"), knownCandidates())
			require.ErrorIs(t, err, ErrMalformedSearchOutput)
		})
	}
}

func TestGroupByCandidate(t *testing.T) {
	hits := []Hit{
		{CandidateID: "g1", Position: 1},
		{CandidateID: "g2", Position: 2},
		{CandidateID: "g1", Position: 3},
	}
	groups := GroupByCandidate(hits)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{1, 3}, []int{groups["g1"][0].Position, groups["g1"][1].Position})
}
