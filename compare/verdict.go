package compare

import (
	"fmt"
	"strings"
)

const (
	CheckGeoTransform = "geotransform"
	CheckProjection   = "projection"
	CheckBandCount    = "band_count"
	CheckRasterSize   = "raster_size"
	CheckDataType     = "data_type"
	CheckBlockSize    = "block_size"
)

// UnimplementedBandChecks are band properties CompareBand does not look at.
// They are reported in Verdict.Skipped so a passing verdict is never read
// as covering them.
var UnimplementedBandChecks = []string{"nodata", "statistics", "metadata", "color_interpretation", "checksum", "overviews", "mask"}

// Mismatch describes one difference between the golden and the new
// dataset. Band is zero for dataset level checks.
type Mismatch struct {
	Check  string `json:"check"`
	Band   int    `json:"band,omitempty"`
	Golden string `json:"golden"`
	New    string `json:"new"`
}

func (m Mismatch) String() string {
	if m.Band > 0 {
		return fmt.Sprintf("band %d: %s mismatch: golden %s, new %s", m.Band, strings.Replace(m.Check, "_", " ", -1), m.Golden, m.New)
	}
	return fmt.Sprintf("%s mismatch: golden %s, new %s", strings.Replace(m.Check, "_", " ", -1), m.Golden, m.New)
}

// Verdict is the all-or-nothing outcome of a comparator together with the
// diagnostics explaining it.
type Verdict struct {
	Equal      bool       `json:"equal"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
	Skipped    []string   `json:"skipped,omitempty"`
}

func pass() Verdict {
	return Verdict{Equal: true}
}

func fail(m Mismatch) Verdict {
	return Verdict{Equal: false, Mismatches: []Mismatch{m}}
}

func (v Verdict) String() string {
	if v.Equal {
		return "equal"
	}
	lines := make([]string, len(v.Mismatches))
	for i, m := range v.Mismatches {
		lines[i] = m.String()
	}
	return strings.Join(lines, "; ")
}
