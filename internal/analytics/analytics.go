package analytics

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lucasnoah/complyd/internal/checks"
)

// DB is the interface for database queries used by analytics.
type DB interface {
	Conn() *sql.DB
}

// FrameworkSummary holds score stats for all scans against one framework.
type FrameworkSummary struct {
	Framework string  `json:"framework"`
	Scans     int     `json:"scans"`
	Files     int     `json:"files"`
	Compliant float64 `json:"compliant_pct"`
	Avg       float64 `json:"avg_score"`
	P50       float64 `json:"p50_score"`
	P95       float64 `json:"p95_score"`
}

// timestamp formats to try when parsing timestamps from the database
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, f := range timestampFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// sinceClause appends a scanned_at lower bound when since is set. Stored
// timestamps are RFC 3339 in UTC, so a date or full timestamp compares
// lexically.
func sinceClause(query string, args []interface{}, column, since string) (string, []interface{}) {
	if since == "" {
		return query, args
	}
	return query + ` AND ` + column + ` >= ?`, append(args, since)
}

// QueryFrameworkSummaries returns per-framework scan counts, compliance rate
// and score percentiles.
func QueryFrameworkSummaries(database DB, since string) ([]FrameworkSummary, error) {
	query, args := sinceClause(`SELECT framework, path, score, compliant FROM scans WHERE 1=1`, nil, "scanned_at", since)

	rows, err := database.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query framework summaries: %w", err)
	}
	defer rows.Close()

	type frameworkData struct {
		scores    []float64
		compliant int
		files     map[string]bool
	}
	data := make(map[string]*frameworkData)
	for rows.Next() {
		var framework, path string
		var score float64
		var compliant bool
		if err := rows.Scan(&framework, &path, &score, &compliant); err != nil {
			return nil, fmt.Errorf("scan framework summary: %w", err)
		}
		fd, ok := data[framework]
		if !ok {
			fd = &frameworkData{files: make(map[string]bool)}
			data[framework] = fd
		}
		fd.scores = append(fd.scores, score)
		fd.files[path] = true
		if compliant {
			fd.compliant++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var results []FrameworkSummary
	for framework, fd := range data {
		sort.Float64s(fd.scores)
		results = append(results, FrameworkSummary{
			Framework: framework,
			Scans:     len(fd.scores),
			Files:     len(fd.files),
			Compliant: pct(fd.compliant, len(fd.scores)),
			Avg:       avg(fd.scores),
			P50:       percentile(fd.scores, 50),
			P95:       percentile(fd.scores, 95),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Framework < results[j].Framework
	})
	return results, nil
}

// ControlFailureRate holds how often one control failed across scans.
type ControlFailureRate struct {
	Framework   string  `json:"framework"`
	ControlID   string  `json:"control_id"`
	ControlName string  `json:"control_name"`
	Severity    string  `json:"severity"`
	Total       int     `json:"total"`
	Failed      int     `json:"failed"`
	FailRate    float64 `json:"fail_pct"`
}

// QueryControlFailureRates returns failure rates per control, most
// frequently failing first. Severity is the highest seen on a failure.
func QueryControlFailureRates(database DB, since string) ([]ControlFailureRate, error) {
	query, args := sinceClause(`
		SELECT s.framework, r.control_id, r.control_name, r.passed, r.severity
		FROM scan_results r
		JOIN scans s ON s.id = r.scan_id
		WHERE 1=1`, nil, "s.scanned_at", since)

	rows, err := database.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query control failure rates: %w", err)
	}
	defer rows.Close()

	type key struct{ framework, control string }
	rates := make(map[key]*ControlFailureRate)
	for rows.Next() {
		var framework, controlID, controlName, severity string
		var passed bool
		if err := rows.Scan(&framework, &controlID, &controlName, &passed, &severity); err != nil {
			return nil, fmt.Errorf("scan control failure rate: %w", err)
		}
		k := key{framework, controlID}
		r, ok := rates[k]
		if !ok {
			r = &ControlFailureRate{Framework: framework, ControlID: controlID, ControlName: controlName}
			rates[k] = r
		}
		r.Total++
		if passed {
			continue
		}
		r.Failed++
		if higherSeverity(severity, r.Severity) {
			r.Severity = severity
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]ControlFailureRate, 0, len(rates))
	for _, r := range rates {
		r.FailRate = pct(r.Failed, r.Total)
		results = append(results, *r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].FailRate != results[j].FailRate {
			return results[i].FailRate > results[j].FailRate
		}
		if results[i].Framework != results[j].Framework {
			return results[i].Framework < results[j].Framework
		}
		return results[i].ControlID < results[j].ControlID
	})
	return results, nil
}

func higherSeverity(candidate, current string) bool {
	c, err := checks.ParseSeverity(candidate)
	if err != nil {
		return false
	}
	if current == "" {
		return true
	}
	cur, err := checks.ParseSeverity(current)
	if err != nil {
		return true
	}
	return c.Rank() > cur.Rank()
}

// ScorePoint is one scan of a file in a score trend.
type ScorePoint struct {
	ScanID    string    `json:"scan_id"`
	ScannedAt time.Time `json:"scanned_at"`
	Framework string    `json:"framework"`
	Score     float64   `json:"score"`
	Delta     float64   `json:"delta"`
	Compliant bool      `json:"compliant"`
}

// QueryScoreTrend returns the scans of path oldest first, each with the
// score change since the previous scan under the same framework.
func QueryScoreTrend(database DB, path string) ([]ScorePoint, error) {
	rows, err := database.Conn().Query(`
		SELECT id, scanned_at, framework, score, compliant
		FROM scans
		WHERE path = ?
		ORDER BY scanned_at ASC, rowid ASC`, path)
	if err != nil {
		return nil, fmt.Errorf("query score trend: %w", err)
	}
	defer rows.Close()

	var results []ScorePoint
	last := make(map[string]float64)
	for rows.Next() {
		var p ScorePoint
		var ts string
		if err := rows.Scan(&p.ScanID, &ts, &p.Framework, &p.Score, &p.Compliant); err != nil {
			return nil, fmt.Errorf("scan score trend: %w", err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			continue
		}
		p.ScannedAt = t
		if prev, ok := last[p.Framework]; ok {
			p.Delta = math.Round((p.Score-prev)*10) / 10
		}
		last[p.Framework] = p.Score
		results = append(results, p)
	}
	return results, rows.Err()
}

// FileSummary holds the latest and extreme scores for one file.
type FileSummary struct {
	Path            string    `json:"path"`
	Scans           int       `json:"scans"`
	LatestScore     float64   `json:"latest_score"`
	LatestCompliant bool      `json:"latest_compliant"`
	LastScanned     time.Time `json:"last_scanned"`
	Best            float64   `json:"best_score"`
	Worst           float64   `json:"worst_score"`
}

// QueryFileSummaries returns one summary per scanned file, least compliant
// latest score first.
func QueryFileSummaries(database DB, since string) ([]FileSummary, error) {
	query, args := sinceClause(`SELECT path, score, compliant, scanned_at FROM scans WHERE 1=1`, nil, "scanned_at", since)
	query += ` ORDER BY scanned_at ASC, rowid ASC`

	rows, err := database.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query file summaries: %w", err)
	}
	defer rows.Close()

	files := make(map[string]*FileSummary)
	for rows.Next() {
		var path, ts string
		var score float64
		var compliant bool
		if err := rows.Scan(&path, &score, &compliant, &ts); err != nil {
			return nil, fmt.Errorf("scan file summary: %w", err)
		}
		f, ok := files[path]
		if !ok {
			f = &FileSummary{Path: path, Best: score, Worst: score}
			files[path] = f
		}
		f.Scans++
		f.LatestScore = score
		f.LatestCompliant = compliant
		if t, err := parseTimestamp(ts); err == nil {
			f.LastScanned = t
		}
		f.Best = math.Max(f.Best, score)
		f.Worst = math.Min(f.Worst, score)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]FileSummary, 0, len(files))
	for _, f := range files {
		results = append(results, *f)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].LatestScore != results[j].LatestScore {
			return results[i].LatestScore < results[j].LatestScore
		}
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// --- helpers ---

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return math.Round(sum/float64(len(values))*10) / 10
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper || upper >= len(sorted) {
		return math.Round(sorted[lower]*10) / 10
	}
	weight := rank - float64(lower)
	return math.Round((sorted[lower]*(1-weight)+sorted[upper]*weight)*10) / 10
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}
