package metrics

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/nci/rastercmp/compare"
)

// CheckInfo is the outcome of one comparator for one pair.
type CheckInfo struct {
	Equal      bool               `json:"equal"`
	Mismatches []compare.Mismatch `json:"mismatches,omitempty"`
	Skipped    []string           `json:"skipped,omitempty"`
}

// ComparisonInfo is the record logged for every golden/new pair.
type ComparisonInfo struct {
	ReqTime  string                `json:"req_time"`
	Duration time.Duration         `json:"duration"`
	Name     string                `json:"name"`
	Golden   string                `json:"golden"`
	New      string                `json:"new"`
	Checks   map[string]*CheckInfo `json:"checks,omitempty"`
	Passed   bool                  `json:"passed"`
	Error    string                `json:"error,omitempty"`
}

func NewCheckInfo(v compare.Verdict) *CheckInfo {
	return &CheckInfo{Equal: v.Equal, Mismatches: v.Mismatches, Skipped: v.Skipped}
}

func (i *ComparisonInfo) ToJSON() (string, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(i)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
