package checks

import (
	"encoding/json"
	"sort"
	"time"
)

// Report is the structured output of scanning one document.
type Report struct {
	ID           string    `json:"id" yaml:"id"`
	Framework    string    `json:"framework" yaml:"framework"`
	Source       string    `json:"source,omitempty" yaml:"source,omitempty"`
	Format       string    `json:"format,omitempty" yaml:"format,omitempty"`
	ContentBytes int       `json:"content_bytes" yaml:"content_bytes"`
	Results      []Result  `json:"results" yaml:"results"`
	Passed       int       `json:"passed" yaml:"passed"`
	Failed       int       `json:"failed" yaml:"failed"`
	Score        float64   `json:"score" yaml:"score"`
	Threshold    float64   `json:"threshold" yaml:"threshold"`
	Compliant    bool      `json:"compliant" yaml:"compliant"`
	ScannedAt    time.Time `json:"scanned_at" yaml:"scanned_at"`
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Total is the number of controls evaluated.
func (r *Report) Total() int {
	return len(r.Results)
}

// Failures returns the failed results, most severe first. Ties keep
// framework order.
func (r *Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].Severity.Rank() > failed[j].Severity.Rank()
	})
	return failed
}

// CountBySeverity tallies failed controls per severity.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int)
	for _, res := range r.Results {
		if !res.Passed {
			counts[res.Severity]++
		}
	}
	return counts
}
