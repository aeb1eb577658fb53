// internal/classify/zones.go
package classify

import (
	"fmt"

	"grnafinder/internal/dna"
)

// ProximalZone is the number of guide bases nearest the PAM that form the
// seed-critical proximal zone; everything upstream of it is distal.
const ProximalZone = 12

// Profile is the per-hit mismatch split. Proximal+Distal == Total always.
type Profile struct {
	Proximal int `json:"proximal_mm"`
	Distal   int `json:"distal_mm"`
	Total    int `json:"total_mm"`
}

// Boundary returns the index separating the distal zone [0,b) from the
// proximal zone [b,length). Guides of 12 nt or fewer have no distal zone.
func Boundary(length int) int {
	if length <= ProximalZone {
		return 0
	}
	return length - ProximalZone
}

// Zones recomputes the positional mismatch split between a guide and an
// aligned site of the same length. The external engine reports only an
// aggregate count, so all zone-aware policy depends on this recomputation.
// Comparison is index-wise on uppercased bases; 'N' on either side never
// matches.
func Zones(guide, site string) (Profile, error) {
	if len(guide) != len(site) {
		return Profile{}, fmt.Errorf("aligned length %d != guide length %d", len(site), len(guide))
	}
	b := Boundary(len(guide))
	var p Profile
	for i := 0; i < len(guide); i++ {
		if dna.BaseEqual(upper(guide[i]), upper(site[i])) {
			continue
		}
		if i < b {
			p.Distal++
		} else {
			p.Proximal++
		}
	}
	p.Total = p.Proximal + p.Distal
	return p, nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
