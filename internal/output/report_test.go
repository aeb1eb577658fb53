package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grnafinder/internal/candidate"
	"grnafinder/internal/casoffinder"
	"grnafinder/internal/classify"
)

func sampleVerdicts() []classify.Verdict {
	c := candidate.Candidate{
		ID: "g1", Sequence: "GATCGATGTTGAATGCCGAT", PAM: "TGG",
		SourceID: "t1", Start: 2, Strand: "+",
	}
	return []classify.Verdict{
		{
			Candidate: c,
			Kept:      true,
			OnTargets: 1,
			Hits: []classify.ScoredHit{
				{
					Hit: casoffinder.Hit{
						CandidateID: "g1", Chromosome: "chr2", Position: 12345,
						Sequence: "GATCGATGTTGAATGCCGAT", SitePAM: "TGG", Strand: "+",
					},
					Profile: classify.Profile{},
					Status:  classify.StatusOnTarget,
				},
				{
					Hit: casoffinder.Hit{
						CandidateID: "g1", Chromosome: "chr9", Position: 777,
						Sequence: "CTACGATGTTGAATGCCGCC", SitePAM: "AGG", Strand: "-",
						Mismatches: 5,
					},
					Profile: classify.Profile{Proximal: 2, Distal: 3, Total: 5},
					Status:  classify.StatusPass,
				},
			},
		},
		{
			Candidate: candidate.Candidate{ID: "g2", Sequence: "TTGAATGCCGATTGGAAACC", PAM: "AGG", SourceID: "t1", Start: 9, Strand: "-"},
			Kept:      false,
			Hits: []classify.ScoredHit{{
				Hit:     casoffinder.Hit{CandidateID: "g2", Chromosome: "chr1", Position: 1, Sequence: "TTGAATGCCGATTGGAAACC", SitePAM: "AGG", Strand: "+", Mismatches: 1},
				Profile: classify.Profile{Proximal: 0, Distal: 1, Total: 1},
				Status:  classify.StatusReject,
			}},
		},
	}
}

func TestWriteTSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteTSV(&sb, sampleVerdicts(), true))

	want := TSVHeader + "\n" +
		"g1\tGATCGATGTTGAATGCCGAT\tTGG\tt1\t2\t+\tchr2\t12345\t+\tGATCGATGTTGAATGCCGAT\tTGG\t0\t0\t0\t0\t0MM\n" +
		"g1\tGATCGATGTTGAATGCCGAT\tTGG\tt1\t2\t+\tchr9\t777\t-\tCTACGATGTTGAATGCCGCC\tAGG\t2\t3\t5\t5\t.\n"
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Fatalf("tsv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteTSVNoHeader(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteTSV(&sb, sampleVerdicts(), false))
	assert.False(t, strings.HasPrefix(sb.String(), "candidate_id"))
}

func TestWriteTSVKeptWithoutHits(t *testing.T) {
	v := []classify.Verdict{{
		Candidate: candidate.Candidate{ID: "g1", Sequence: "ACGTACGTAC", PAM: "AGG", SourceID: "t1", Strand: "+"},
		Kept:      true,
	}}
	var sb strings.Builder
	require.NoError(t, WriteTSV(&sb, v, false))
	assert.Equal(t, "g1\tACGTACGTAC\tAGG\tt1\t0\t+\t.\t.\t.\t.\t.\t.\t.\t.\t.\t.\n", sb.String())
}

func TestWriteJSON(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteJSON(&sb, sampleVerdicts()))

	var rep Report
	require.NoError(t, json.Unmarshal([]byte(sb.String()), &rep))
	assert.Equal(t, 2, rep.Candidates)
	assert.Equal(t, 1, rep.Kept)
	require.Len(t, rep.Survivors, 1)
	assert.Equal(t, "g1", rep.Survivors[0].Candidate.ID)
	assert.True(t, rep.Survivors[0].Hits[0].OnTarget())
}
