// internal/output/report.go
package output

import (
	"fmt"
	"io"

	"grnafinder/internal/classify"
)

// TSVHeader is the canonical header row for text/TSV reports. Keep this as
// the single source of truth.
const TSVHeader = "candidate_id\tguide\tpam\tsource_id\ttarget_start\ttarget_strand\tchromosome\tposition\tstrand\tsite\tsite_pam\tproximal_mm\tdistal_mm\ttotal_mm\treported_mm\ton_target"

// onTargetMark flags zero-mismatch hits in the on_target column so a
// reviewer can audit whether each one is plausible as the intended site.
const (
	onTargetMark = "0MM"
	noValue      = "."
)

// WriteTSV emits one row per hit of each kept candidate. A kept candidate
// with no hits at all still gets a single row with empty hit columns, so
// survivors are never silently absent from the table.
func WriteTSV(w io.Writer, verdicts []classify.Verdict, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, v := range verdicts {
		if !v.Kept {
			continue
		}
		c := v.Candidate
		if len(v.Hits) == 0 {
			_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Sequence, c.PAM, c.SourceID, c.Start, c.Strand,
				noValue, noValue, noValue, noValue, noValue,
				noValue, noValue, noValue, noValue, noValue)
			if err != nil {
				return err
			}
			continue
		}
		for _, sh := range v.Hits {
			flag := noValue
			if sh.OnTarget() {
				flag = onTargetMark
			}
			_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				c.ID, c.Sequence, c.PAM, c.SourceID, c.Start, c.Strand,
				sh.Hit.Chromosome, sh.Hit.Position, sh.Hit.Strand,
				sh.Hit.Sequence, sh.Hit.SitePAM,
				sh.Profile.Proximal, sh.Profile.Distal, sh.Profile.Total,
				sh.Hit.Mismatches, flag)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
