// internal/classify/verdict.go
package classify

import (
	"grnafinder/internal/candidate"
	"grnafinder/internal/casoffinder"
)

// ScoredHit is a hit with its recomputed zone profile and outcome tag.
type ScoredHit struct {
	Hit     casoffinder.Hit `json:"hit"`
	Profile Profile         `json:"profile"`
	Status  Status          `json:"status"`
}

// OnTarget reports whether the hit was exempted as a full-length perfect
// match.
func (s ScoredHit) OnTarget() bool { return s.Status == StatusOnTarget }

// Verdict is the final per-candidate decision. Every hit is retained with
// its classification — including exempted on-target ones — so a reviewer
// can audit whether a flagged hit is plausible as the real intended site.
type Verdict struct {
	Candidate candidate.Candidate `json:"candidate"`
	Kept      bool                `json:"kept"`
	OnTargets int                 `json:"on_targets"`
	Hits      []ScoredHit         `json:"hits"`
}

// Judge scores every hit of one candidate and combines them: the
// candidate is kept iff no evaluated (non-exempt) hit rejects. A pure
// function of its inputs; hits for different candidates may be judged
// concurrently.
func Judge(c candidate.Candidate, hits []casoffinder.Hit, level Level) (Verdict, error) {
	v := Verdict{Candidate: c, Kept: true}
	for _, h := range hits {
		p, err := Zones(c.Sequence, h.Sequence)
		if err != nil {
			return Verdict{}, err
		}
		st := Evaluate(p, level)
		switch st {
		case StatusOnTarget:
			v.OnTargets++
		case StatusReject:
			v.Kept = false
		}
		v.Hits = append(v.Hits, ScoredHit{Hit: h, Profile: p, Status: st})
	}
	return v, nil
}
